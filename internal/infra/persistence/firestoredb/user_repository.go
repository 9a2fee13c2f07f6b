package firestoredb

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
)

const usersCollection = "users"

// userDoc is the Firestore document shape for an account record. The
// passwordHash field exists only to absorb legacy documents written by an
// earlier importer; it is stripped on the way out and never written.
type userDoc struct {
	Name          string    `firestore:"name"`
	Email         string    `firestore:"email"`
	Role          any       `firestore:"role"`
	Provider      string    `firestore:"provider"`
	EmailVerified bool      `firestore:"emailVerified"`
	CreatedAt     time.Time `firestore:"createdAt"`
	LastLoginAt   time.Time `firestore:"lastLogin"`
	PasswordHash  string    `firestore:"passwordHash,omitempty"`
}

type userRepository struct {
	client *firestore.Client
}

// NewUserRepository is the constructor for the Firestore-backed user
// record repository.
func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

// FindByUID retrieves a single record by the provider's subject id.
func (r *userRepository) FindByUID(ctx context.Context, uid string) (*entity.UserRecord, error) {
	snap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get user %s", uid)
	}

	return decodeUser(uid, snap)
}

// Create persists a new record, keyed by its UID.
func (r *userRepository) Create(ctx context.Context, record *entity.UserRecord) error {
	doc := userDoc{
		Name:          record.Name,
		Email:         record.Email,
		Role:          string(record.Role),
		Provider:      record.Provider,
		EmailVerified: record.EmailVerified,
		CreatedAt:     record.CreatedAt,
		LastLoginAt:   record.LastLoginAt,
	}

	if _, err := r.client.Collection(usersCollection).Doc(record.UID).Set(ctx, doc); err != nil {
		return errors.Wrapf(err, "create user %s", record.UID)
	}

	return nil
}

// TouchLastLogin stamps the record's last-login time.
func (r *userRepository) TouchLastLogin(ctx context.Context, uid string) error {
	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "lastLogin", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return repository.ErrUserNotFound
	}

	return errors.Wrapf(err, "touch last login for %s", uid)
}

// Update applies a partial update to an existing record.
func (r *userRepository) Update(ctx context.Context, uid string, patch *repository.UserRecordPatch) error {
	updates := make([]firestore.Update, 0, 3)
	if patch.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *patch.Name})
	}
	if patch.Role != nil {
		updates = append(updates, firestore.Update{Path: "role", Value: string(*patch.Role)})
	}
	if patch.EmailVerified != nil {
		updates = append(updates, firestore.Update{Path: "emailVerified", Value: *patch.EmailVerified})
	}
	if len(updates) == 0 {
		return nil
	}

	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return repository.ErrUserNotFound
	}

	return errors.Wrapf(err, "update user %s", uid)
}

// List returns every record in the collection.
func (r *userRepository) List(ctx context.Context) ([]*entity.UserRecord, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	records := make([]*entity.UserRecord, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterate users")
		}

		record, err := decodeUser(snap.Ref.ID, snap)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func decodeUser(uid string, snap *firestore.DocumentSnapshot) (*entity.UserRecord, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "decode user %s", uid)
	}

	roles := entity.NormalizeRoles(doc.Role)

	return &entity.UserRecord{
		UID:           uid,
		Name:          doc.Name,
		Email:         doc.Email,
		Role:          roles.Primary(),
		Provider:      doc.Provider,
		EmailVerified: doc.EmailVerified,
		CreatedAt:     doc.CreatedAt,
		LastLoginAt:   doc.LastLoginAt,
	}, nil
}
