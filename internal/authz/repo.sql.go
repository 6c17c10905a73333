package authz

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"

	"github.com/gatewarden/gatewarden/internal/shared"
)

// Repository persists endpoint rules in PostgreSQL.
//
// ListRules re-reads the table on every call so a rule added or removed by an
// admin takes effect on the very next request. Ordering is creation order
// (ORDER BY id), which fixes the evaluation order the decision engine relies
// on. Concurrent identical reads are collapsed through singleflight; nothing
// outlives the in-flight call, so a caller still observes either the pre- or
// post-write rule set, never a torn one.
type Repository struct {
	pool   *pgxpool.Pool
	flight singleflight.Group
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRules returns all endpoint rules in creation order.
func (r *Repository) ListRules(ctx context.Context) ([]EndpointRule, error) {
	v, err, _ := r.flight.Do("list", func() (any, error) {
		// Detached from the triggering request so one caller's cancellation
		// does not fail the other requests sharing this flight.
		return r.listRules(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]EndpointRule), nil
}

func (r *Repository) listRules(ctx context.Context) ([]EndpointRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT er.id, er.url_pattern, er.http_method, ro.name, er.created_at
		FROM endpoint_rules er
		JOIN roles ro ON ro.id = er.role_id
		ORDER BY er.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []EndpointRule
	for rows.Next() {
		var rule EndpointRule
		if err := rows.Scan(&rule.ID, &rule.URLPattern, &rule.HTTPMethod, &rule.RoleName, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// CreateRule inserts a rule bound to the named role. Returns shared.ErrNotFound
// when the role does not exist.
func (r *Repository) CreateRule(ctx context.Context, pattern, method, roleName string) (EndpointRule, error) {
	rule := EndpointRule{URLPattern: pattern, HTTPMethod: strings.ToUpper(method), RoleName: roleName}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO endpoint_rules (url_pattern, http_method, role_id, created_at)
		SELECT $1, $2, ro.id, $3 FROM roles ro WHERE ro.name = $4
		RETURNING id, created_at`,
		pattern, rule.HTTPMethod, time.Now().UTC(), roleName,
	).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return EndpointRule{}, shared.ErrNotFound
		}
		return EndpointRule{}, err
	}
	return rule, nil
}

// DeleteRule removes a rule by ID. Returns shared.ErrNotFound if nothing was
// deleted.
func (r *Repository) DeleteRule(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM endpoint_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListDanglingRules returns rules whose role no longer exists. Used by the
// integrity scan job; the FK normally prevents this, dangling rows indicate
// manual schema surgery.
func (r *Repository) ListDanglingRules(ctx context.Context) ([]EndpointRule, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT er.id, er.url_pattern, er.http_method, '', er.created_at
		FROM endpoint_rules er
		LEFT JOIN roles ro ON ro.id = er.role_id
		WHERE ro.id IS NULL
		ORDER BY er.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []EndpointRule
	for rows.Next() {
		var rule EndpointRule
		if err := rows.Scan(&rule.ID, &rule.URLPattern, &rule.HTTPMethod, &rule.RoleName, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

var _ RuleSource = (*Repository)(nil)
