package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"example.com/habitkick/internal/domain"
)

const profileColumns = `user_id, username, full_name, avatar_url, height_cm, starting_weight_kg, created_at, updated_at`

// CreateAccount inserts the user and profile in one transaction.
func (r *Repository) CreateAccount(ctx context.Context, user domain.User, profile domain.Profile) error {
	err := r.withUser(ctx, user.ID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1,$2,$3,$4)`,
			user.ID, user.Email, user.PasswordHash, user.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO profiles (`+profileColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			profile.UserID, profile.Username, profile.FullName, profile.AvatarURL,
			profile.HeightCm, profile.StartingWeightKg, profile.CreatedAt, profile.UpdatedAt,
		)
		return err
	})
	return mapPgError("create account", err)
}

// FindUserByEmail returns nil when no user has the email.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("find user", err)
	}
	return &user, nil
}

// GetContact joins the user's email with the profile username. It returns nil for unknown users.
func (r *Repository) GetContact(ctx context.Context, userID string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.pool.QueryRow(ctx,
		`SELECT u.id, u.email, COALESCE(p.username, '')
           FROM users u LEFT JOIN profiles p ON p.user_id = u.id
          WHERE u.id = $1`, userID,
	).Scan(&contact.UserID, &contact.Email, &contact.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("get contact", err)
	}
	return &contact, nil
}

// GetProfile returns nil when the profile does not exist.
func (r *Repository) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.queryProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
}

// GetProfileByUsername matches usernames case-insensitively.
func (r *Repository) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.queryProfile(ctx, `SELECT `+profileColumns+` FROM profiles WHERE lower(username) = lower($1)`, username)
}

func (r *Repository) queryProfile(ctx context.Context, query string, arg string) (*domain.Profile, error) {
	profile, err := scanProfile(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError("get profile", err)
	}
	return &profile, nil
}

// UpdateProfile overwrites the mutable profile columns.
func (r *Repository) UpdateProfile(ctx context.Context, profile domain.Profile) error {
	err := r.withUser(ctx, profile.UserID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE profiles SET username=$2, full_name=$3, avatar_url=$4, height_cm=$5, starting_weight_kg=$6, updated_at=$7
             WHERE user_id=$1`,
			profile.UserID, profile.Username, profile.FullName, profile.AvatarURL,
			profile.HeightCm, profile.StartingWeightKg, profile.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return requireAffected(tag)
	})
	return mapPgError("update profile", err)
}

// SearchProfiles performs a case-insensitive username prefix search.
func (r *Repository) SearchProfiles(ctx context.Context, prefix string, limit int) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles
          WHERE lower(username) LIKE lower($1) || '%'
          ORDER BY username LIMIT $2`,
		escapeLike(prefix), limit,
	)
	if err != nil {
		return nil, mapPgError("search profiles", err)
	}
	defer rows.Close()

	results := make([]domain.Profile, 0, limit)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, profile)
	}
	return results, rows.Err()
}

func scanProfile(row pgx.Row) (domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(&p.UserID, &p.Username, &p.FullName, &p.AvatarURL, &p.HeightCm, &p.StartingWeightKg, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '%' || r == '_' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
