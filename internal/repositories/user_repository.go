package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"chitchat-service/internal/identity"
	"chitchat-service/internal/models"
)

// UserRepository abstracts user persistence.
type UserRepository interface {
	UpsertFromIdentity(ctx context.Context, ident identity.Identity) (models.User, error)
	SearchByEmail(ctx context.Context, email string, excludeUserID string) ([]models.Contact, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// UpsertFromIdentity creates the user on first login and refreshes the
// profile picture when the provider reports a new one. The user id is the
// provider subject and never changes.
func (r *UserRepo) UpsertFromIdentity(ctx context.Context, ident identity.Identity) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`SELECT id, display_name, email, profile_pic_url, created_at FROM users WHERE email=$1`, ident.Email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return models.User{}, err
		}
		err = r.db.QueryRowxContext(ctx,
			`INSERT INTO users (id, display_name, email, profile_pic_url)
             VALUES ($1, $2, $3, $4)
             RETURNING id, display_name, email, profile_pic_url, created_at`,
			ident.Subject, ident.DisplayName, ident.Email, ident.ProfilePicURL).
			Scan(&user.ID, &user.DisplayName, &user.Email, &user.ProfilePicURL, &user.CreatedAt)
		return user, err
	}

	if ident.ProfilePicURL != nil && (user.ProfilePicURL == nil || *user.ProfilePicURL != *ident.ProfilePicURL) {
		if _, err := r.db.ExecContext(ctx,
			`UPDATE users SET profile_pic_url=$1 WHERE email=$2`, *ident.ProfilePicURL, ident.Email); err != nil {
			return models.User{}, err
		}
		user.ProfilePicURL = ident.ProfilePicURL
	}
	return user, nil
}

// SearchByEmail looks up contacts by exact email match, excluding the caller.
func (r *UserRepo) SearchByEmail(ctx context.Context, email string, excludeUserID string) ([]models.Contact, error) {
	contacts := []models.Contact{}
	err := r.db.SelectContext(ctx, &contacts,
		`SELECT id, display_name, email, profile_pic_url FROM users WHERE email=$1 AND id<>$2`,
		email, excludeUserID)
	return contacts, err
}
