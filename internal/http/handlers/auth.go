package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/atlasgate/countryhub/internal/config"
	"github.com/atlasgate/countryhub/internal/domain/user"
	"github.com/atlasgate/countryhub/internal/repo/postgres"
	"github.com/atlasgate/countryhub/internal/security"
	"github.com/gin-gonic/gin"
)

type AuthUserStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Count(ctx context.Context) (int, error)
}

type TokenIssuer interface {
	GenerateToken(userID, email, role string) (string, error)
}

type AuthHandler struct {
	users AuthUserStore
	jwt   TokenIssuer
}

func NewAuthHandler(users AuthUserStore, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwt,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// registeredUser is the register 201 body: the new account without its
// update timestamp.
type registeredUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	// The very first account becomes the admin; everyone after is a
	// plain user.
	role := user.RoleUser

	count, err := h.users.Count(cctx)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	if count == 0 {
		role = user.RoleAdmin
	}

	u, err := h.users.Create(cctx, req.Name, req.Email, hash, role)

	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email already in use")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, registeredUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		// same message for unknown email and wrong password
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Email, foundUser.Role)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
