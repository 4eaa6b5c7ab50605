package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/igwt-platform/igwt/internal/models"
	"github.com/igwt-platform/igwt/internal/shared"
)

// Postgres maps Update closures onto pgx transactions, so the atomicity the
// core relies on is the database's.
type Postgres struct{ pool *pgxpool.Pool }

func NewPostgres(pool *pgxpool.Pool) *Postgres { return &Postgres{pool: pool} }

func (p *Postgres) View(ctx context.Context, fn func(tx Tx) error) error {
	return p.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

// Update runs serializable: the core's check-then-act guards (escrow still
// held, read-modify-write counters) assume no concurrent interleaving, and
// Read Committed would let two transactions pass the same guard on stale
// reads. Serialization failures are retried with the same closure.
func (p *Postgres) Update(ctx context.Context, fn func(tx Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = p.run(ctx, opts, fn)
		if !retryableTxError(err) {
			return err
		}
	}
	return err
}

const maxTxRetries = 3

// retryableTxError reports whether the transaction failed only because of
// concurrent serialization (SQLSTATE 40001) or a deadlock (40P01), both of
// which Postgres documents as safe to retry.
func retryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func (p *Postgres) run(ctx context.Context, opts pgx.TxOptions, fn func(tx Tx) error) error {
	tx, err := p.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := fn(&pgTx{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (p *Postgres) Close() { p.pool.Close() }

type pgTx struct{ q pgx.Tx }

func (t *pgTx) Users() UserRepo                 { return pgUsers{t.q} }
func (t *pgTx) Gigs() GigRepo                   { return pgGigs{t.q} }
func (t *pgTx) Orders() OrderRepo               { return pgOrders{t.q} }
func (t *pgTx) Escrows() EscrowRepo             { return pgEscrows{t.q} }
func (t *pgTx) Disputes() DisputeRepo           { return pgDisputes{t.q} }
func (t *pgTx) Messages() MessageRepo           { return pgMessages{t.q} }
func (t *pgTx) Reviews() ReviewRepo             { return pgReviews{t.q} }
func (t *pgTx) Subscriptions() SubscriptionRepo { return pgSubscriptions{t.q} }

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return shared.ErrNotFound
	}
	return err
}

func countRows(ctx context.Context, q pgx.Tx, table string) (int, error) {
	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

// ---- users ----

type pgUsers struct{ q pgx.Tx }

const userColumns = `id, username, email, password, user_type, role, skills, rating,
	completed_projects, portfolio, achievements, past_work,
	subscription_status, subscription_expiry, created_at`

func (r pgUsers) Create(ctx context.Context, u *models.User) error {
	portfolio, achievements, pastWork, err := marshalShowcase(u)
	if err != nil {
		return err
	}
	_, err = r.q.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		u.ID, u.Username, u.Email, u.Password, u.UserType, u.Role, u.Skills, u.Rating,
		u.CompletedProjects, portfolio, achievements, pastWork,
		u.SubscriptionStatus, u.SubscriptionExpiry, u.CreatedAt,
	)
	return err
}

func (r pgUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r pgUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r pgUsers) Update(ctx context.Context, u *models.User) error {
	portfolio, achievements, pastWork, err := marshalShowcase(u)
	if err != nil {
		return err
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET username=$2, email=$3, password=$4, user_type=$5, role=$6,
		   skills=$7, rating=$8, completed_projects=$9, portfolio=$10,
		   achievements=$11, past_work=$12, subscription_status=$13,
		   subscription_expiry=$14
		 WHERE id = $1`,
		u.ID, u.Username, u.Email, u.Password, u.UserType, u.Role,
		u.Skills, u.Rating, u.CompletedProjects, portfolio,
		achievements, pastWork, u.SubscriptionStatus, u.SubscriptionExpiry,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r pgUsers) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "users") }

func marshalShowcase(u *models.User) (portfolio, achievements, pastWork []byte, err error) {
	if portfolio, err = json.Marshal(u.Portfolio); err != nil {
		return
	}
	if achievements, err = json.Marshal(u.Achievements); err != nil {
		return
	}
	pastWork, err = json.Marshal(u.PastWork)
	return
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	var portfolio, achievements, pastWork []byte
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.UserType, &u.Role,
		&u.Skills, &u.Rating, &u.CompletedProjects, &portfolio, &achievements, &pastWork,
		&u.SubscriptionStatus, &u.SubscriptionExpiry, &u.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if err := json.Unmarshal(portfolio, &u.Portfolio); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(achievements, &u.Achievements); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pastWork, &u.PastWork); err != nil {
		return nil, err
	}
	return &u, nil
}

// ---- gigs ----

type pgGigs struct{ q pgx.Tx }

const gigColumns = `id, freelancer_id, freelancer_name, title, description, category,
	price, delivery_days, requirements, rating, orders, created_at`

func (r pgGigs) Create(ctx context.Context, g *models.Gig) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO gigs (`+gigColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		g.ID, g.FreelancerID, g.FreelancerName, g.Title, g.Description, g.Category,
		g.Price, g.DeliveryDays, g.Requirements, g.Rating, g.Orders, g.CreatedAt,
	)
	return err
}

func (r pgGigs) GetByID(ctx context.Context, id string) (*models.Gig, error) {
	return scanGig(r.q.QueryRow(ctx, `SELECT `+gigColumns+` FROM gigs WHERE id = $1`, id))
}

func (r pgGigs) List(ctx context.Context, f GigFilter) ([]*models.Gig, error) {
	query := `SELECT ` + gigColumns + ` FROM gigs`
	var where []string
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.MinPrice > 0 {
		args = append(args, f.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"
	return r.queryGigs(ctx, query, args...)
}

func (r pgGigs) ListByFreelancer(ctx context.Context, freelancerID string) ([]*models.Gig, error) {
	return r.queryGigs(ctx,
		`SELECT `+gigColumns+` FROM gigs WHERE freelancer_id = $1 ORDER BY created_at ASC, id ASC`,
		freelancerID)
}

func (r pgGigs) queryGigs(ctx context.Context, query string, args ...any) ([]*models.Gig, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Gig
	for rows.Next() {
		g, err := scanGig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r pgGigs) Update(ctx context.Context, g *models.Gig) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE gigs SET freelancer_name=$2, title=$3, description=$4, category=$5,
		   price=$6, delivery_days=$7, requirements=$8, rating=$9, orders=$10
		 WHERE id = $1`,
		g.ID, g.FreelancerName, g.Title, g.Description, g.Category,
		g.Price, g.DeliveryDays, g.Requirements, g.Rating, g.Orders,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r pgGigs) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "gigs") }

func scanGig(row pgx.Row) (*models.Gig, error) {
	var g models.Gig
	err := row.Scan(&g.ID, &g.FreelancerID, &g.FreelancerName, &g.Title, &g.Description,
		&g.Category, &g.Price, &g.DeliveryDays, &g.Requirements, &g.Rating, &g.Orders, &g.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &g, nil
}

// ---- orders ----

type pgOrders struct{ q pgx.Tx }

const orderColumns = `id, gig_id, gig_title, client_id, freelancer_id, price,
	requirements, instructions, status, delivery_date, created_at, updated_at`

func (r pgOrders) Create(ctx context.Context, o *models.Order) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		o.ID, o.GigID, o.GigTitle, o.ClientID, o.FreelancerID, o.Price,
		o.Requirements, o.Instructions, string(o.Status), o.DeliveryDate, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r pgOrders) GetByID(ctx context.Context, id string) (*models.Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func (r pgOrders) ListByParticipant(ctx context.Context, userID string) ([]*models.Order, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE client_id = $1 OR freelancer_id = $1
		 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r pgOrders) Update(ctx context.Context, o *models.Order) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE orders SET status=$2, updated_at=$3 WHERE id = $1`,
		o.ID, string(o.Status), o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r pgOrders) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "orders") }

func scanOrder(row pgx.Row) (*models.Order, error) {
	var o models.Order
	var status string
	err := row.Scan(&o.ID, &o.GigID, &o.GigTitle, &o.ClientID, &o.FreelancerID, &o.Price,
		&o.Requirements, &o.Instructions, &status, &o.DeliveryDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	o.Status = models.OrderStatus(status)
	return &o, nil
}

// ---- escrows ----

type pgEscrows struct{ q pgx.Tx }

const escrowColumns = `id, order_id, amount, status, created_at, updated_at`

func (r pgEscrows) Create(ctx context.Context, e *models.Escrow) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO escrows (`+escrowColumns+`) VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.OrderID, e.Amount, string(e.Status), e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r pgEscrows) GetByID(ctx context.Context, id string) (*models.Escrow, error) {
	return scanEscrow(r.q.QueryRow(ctx, `SELECT `+escrowColumns+` FROM escrows WHERE id = $1`, id))
}

func (r pgEscrows) GetByOrder(ctx context.Context, orderID string) (*models.Escrow, error) {
	return scanEscrow(r.q.QueryRow(ctx, `SELECT `+escrowColumns+` FROM escrows WHERE order_id = $1`, orderID))
}

func (r pgEscrows) Update(ctx context.Context, e *models.Escrow) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE escrows SET status=$2, updated_at=$3 WHERE id = $1`,
		e.ID, string(e.Status), e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanEscrow(row pgx.Row) (*models.Escrow, error) {
	var e models.Escrow
	var status string
	err := row.Scan(&e.ID, &e.OrderID, &e.Amount, &status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	e.Status = models.EscrowStatus(status)
	return &e, nil
}

// ---- disputes ----

type pgDisputes struct{ q pgx.Tx }

const disputeColumns = `id, order_id, initiated_by, reason, description, status,
	resolution, notes, resolved_by, admin_email, created_at, resolved_at`

func (r pgDisputes) Create(ctx context.Context, d *models.Dispute) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO disputes (`+disputeColumns+`)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		d.ID, d.OrderID, d.InitiatedBy, d.Reason, d.Description, string(d.Status),
		d.Resolution, d.Notes, d.ResolvedBy, d.AdminEmail, d.CreatedAt, d.ResolvedAt,
	)
	return err
}

func (r pgDisputes) GetByID(ctx context.Context, id string) (*models.Dispute, error) {
	return scanDispute(r.q.QueryRow(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, id))
}

func (r pgDisputes) List(ctx context.Context) ([]*models.Dispute, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+disputeColumns+` FROM disputes ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Dispute
	for rows.Next() {
		d, err := scanDispute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r pgDisputes) Update(ctx context.Context, d *models.Dispute) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE disputes SET status=$2, resolution=$3, notes=$4, resolved_by=$5, resolved_at=$6
		 WHERE id = $1`,
		d.ID, string(d.Status), d.Resolution, d.Notes, d.ResolvedBy, d.ResolvedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r pgDisputes) Count(ctx context.Context) (int, error) { return countRows(ctx, r.q, "disputes") }

func scanDispute(row pgx.Row) (*models.Dispute, error) {
	var d models.Dispute
	var status string
	err := row.Scan(&d.ID, &d.OrderID, &d.InitiatedBy, &d.Reason, &d.Description, &status,
		&d.Resolution, &d.Notes, &d.ResolvedBy, &d.AdminEmail, &d.CreatedAt, &d.ResolvedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	d.Status = models.DisputeStatus(status)
	return &d, nil
}

// ---- messages ----

type pgMessages struct{ q pgx.Tx }

func (r pgMessages) Create(ctx context.Context, m *models.Message) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO messages (id, order_id, sender_id, sender_name, content, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.OrderID, m.SenderID, m.SenderName, m.Content, m.CreatedAt,
	)
	return err
}

func (r pgMessages) ListByOrder(ctx context.Context, orderID string) ([]*models.Message, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, order_id, sender_id, sender_name, content, created_at
		 FROM messages WHERE order_id = $1 ORDER BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.OrderID, &m.SenderID, &m.SenderName, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// ---- reviews ----

type pgReviews struct{ q pgx.Tx }

const reviewColumns = `id, order_id, gig_id, client_id, client_name, rating, comment, created_at`

func (r pgReviews) Create(ctx context.Context, rv *models.Review) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO reviews (`+reviewColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		rv.ID, rv.OrderID, rv.GigID, rv.ClientID, rv.ClientName, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	return err
}

func (r pgReviews) GetByOrder(ctx context.Context, orderID string) (*models.Review, error) {
	return scanReview(r.q.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE order_id = $1`, orderID))
}

func (r pgReviews) ListByGig(ctx context.Context, gigID string) ([]*models.Review, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE gig_id = $1 ORDER BY created_at ASC, id ASC`, gigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*models.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanReview(row pgx.Row) (*models.Review, error) {
	var rv models.Review
	err := row.Scan(&rv.ID, &rv.OrderID, &rv.GigID, &rv.ClientID, &rv.ClientName,
		&rv.Rating, &rv.Comment, &rv.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &rv, nil
}

// ---- subscriptions ----

type pgSubscriptions struct{ q pgx.Tx }

func (r pgSubscriptions) Create(ctx context.Context, s *models.Subscription) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO subscriptions (id, user_id, amount, start_date, expiry_date, status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		s.ID, s.UserID, s.Amount, s.StartDate, s.ExpiryDate, s.Status,
	)
	return err
}
