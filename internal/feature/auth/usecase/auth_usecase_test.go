package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"erasmus_backend/internal/feature/auth/domain/entity"
	"erasmus_backend/internal/platform/password"
	"erasmus_backend/internal/shared/apperr"
	"erasmus_backend/internal/shared/model"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
type mockUserRepository struct {
	// CreateFunc is called when the Create method is invoked.
	CreateFunc func(ctx context.Context, user *entity.User) error
	// FindByEmailFunc is called when the FindByEmail method is invoked.
	FindByEmailFunc func(ctx context.Context, mail string) (*entity.User, error)
}

// Create is the mock implementation of the Create method.
func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil // Default: success
}

// FindByEmail is the mock implementation of the FindByEmail method.
func (m *mockUserRepository) FindByEmail(ctx context.Context, mail string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, mail)
	}
	// Default: return user not found error
	return nil, apperr.ErrNotFound
}

// mockTokenIssuer is a mock implementation of the TokenIssuer interface.
type mockTokenIssuer struct {
	IssueFunc func(subjectID, role string) (string, error)
}

// Issue is the mock implementation of the Issue method.
func (m *mockTokenIssuer) Issue(subjectID, role string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subjectID, role)
	}
	// Default: return a dummy token
	return "mock-jwt-token", nil
}

// countingHasher wraps the real hasher and records Verify calls.
type countingHasher struct {
	*password.Hasher
	verifyCalls []string
}

func (h *countingHasher) Verify(plaintext, digest string) bool {
	h.verifyCalls = append(h.verifyCalls, digest)
	return h.Hasher.Verify(plaintext, digest)
}

func newHasher() *countingHasher {
	return &countingHasher{Hasher: password.NewHasher(bcrypt.MinCost)}
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		var stored *entity.User
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				stored = user
				user.ID = "new-id"
				return nil
			},
		}
		hasher := newHasher()

		uc := NewAuthUsecase(repo, hasher, &mockTokenIssuer{})
		user, err := uc.Register(context.Background(), RegisterInput{
			Name: " Ana ", Mail: "Ana@Example.com ", Password: "password123", Phone: "600000000",
		})

		require.NoError(t, err)
		assert.Equal(t, "new-id", user.ID)
		assert.Equal(t, "Ana", stored.Name)
		assert.Equal(t, "ana@example.com", stored.Mail)
		assert.Equal(t, entity.RoleUser, stored.Role)
		// パスワードはハッシュ化されて保存される
		assert.NotEqual(t, "password123", stored.Password)
		assert.True(t, hasher.Hasher.Verify("password123", stored.Password))
	})

	t.Run("short password", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				t.Fatal("Create must not be called")
				return nil
			},
		}
		uc := NewAuthUsecase(repo, newHasher(), &mockTokenIssuer{})
		_, err := uc.Register(context.Background(), RegisterInput{Name: "Ana", Mail: "a@example.com", Password: "short"})

		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("missing name", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, newHasher(), &mockTokenIssuer{})
		_, err := uc.Register(context.Background(), RegisterInput{Name: "  ", Mail: "a@example.com", Password: "password123"})

		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return apperr.ErrConflict
			},
		}
		uc := NewAuthUsecase(repo, newHasher(), &mockTokenIssuer{})
		_, err := uc.Register(context.Background(), RegisterInput{Name: "Ana", Mail: "a@example.com", Password: "password123"})

		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Contains(t, err.Error(), "email already registered")
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	testUser := &entity.User{
		Base:     model.Base{ID: "user-1"},
		Mail:     "admin@example.com",
		Password: string(hashed),
		Role:     entity.RoleAdministrator,
	}
	findUser := func(ctx context.Context, mail string) (*entity.User, error) {
		if mail == testUser.Mail {
			return testUser, nil
		}
		return nil, apperr.ErrNotFound
	}

	t.Run("successful login", func(t *testing.T) {
		tokens := &mockTokenIssuer{
			IssueFunc: func(subjectID, role string) (string, error) {
				assert.Equal(t, "user-1", subjectID)
				assert.Equal(t, "Administrator", role)
				return "signed-token", nil
			},
		}
		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findUser}, newHasher(), tokens)

		res, err := uc.Login(context.Background(), "admin@example.com", "admin123")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", res.AccessToken)
		assert.Equal(t, testUser, res.User)
	})

	t.Run("wrong password", func(t *testing.T) {
		hasher := newHasher()
		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findUser}, hasher, &mockTokenIssuer{})

		res, err := uc.Login(context.Background(), "admin@example.com", "wrong")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
		assert.Len(t, hasher.verifyCalls, 1)
	})

	// ユーザーが存在しない場合もダミーハッシュとの比較が1回行われ、同じエラーになることを検証
	t.Run("unknown user still compares against dummy hash", func(t *testing.T) {
		hasher := newHasher()
		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findUser}, hasher, &mockTokenIssuer{})

		res, err := uc.Login(context.Background(), "nobody@example.com", "admin123")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperr.ErrInvalidCredential)
		require.Len(t, hasher.verifyCalls, 1)
		assert.Equal(t, password.DummyHash, hasher.verifyCalls[0])
	})

	t.Run("storage failure is not reported as bad credentials", func(t *testing.T) {
		dbErr := errors.New("database error")
		repo := &mockUserRepository{
			FindByEmailFunc: func(ctx context.Context, mail string) (*entity.User, error) { return nil, dbErr },
		}
		uc := NewAuthUsecase(repo, newHasher(), &mockTokenIssuer{})

		_, err := uc.Login(context.Background(), "admin@example.com", "admin123")

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, apperr.ErrInvalidCredential)
	})

	t.Run("token issue failure", func(t *testing.T) {
		tokens := &mockTokenIssuer{
			IssueFunc: func(subjectID, role string) (string, error) { return "", errors.New("sign failed") },
		}
		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findUser}, newHasher(), tokens)

		_, err := uc.Login(context.Background(), "admin@example.com", "admin123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate token")
	})
}
