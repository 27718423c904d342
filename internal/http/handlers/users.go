package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/atlasgate/countryhub/internal/config"
	"github.com/atlasgate/countryhub/internal/domain/user"
	"github.com/atlasgate/countryhub/internal/http/middlewares"
	"github.com/atlasgate/countryhub/internal/repo/postgres"
	"github.com/atlasgate/countryhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context, filter user.ListFilter, limit, offset int) ([]user.User, int, error)
	Update(ctx context.Context, id string, req user.UpdateUserRequest, passwordHash *string, allowRole bool) (user.User, error)
	Delete(ctx context.Context, id string) error
}

type UsersHandler struct {
	users UserStore
}

func NewUsersHandler(users UserStore) *UsersHandler {
	return &UsersHandler{users: users}
}

func identity(ctx *gin.Context) (actorID, role string, ok bool) {
	actorID, okID := middlewares.UserIDFromContext(ctx)
	role, okRole := middlewares.RoleFromContext(ctx)

	return actorID, role, okID && okRole
}

func (h *UsersHandler) List(ctx *gin.Context) {
	actorID, role, ok := identity(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	p := ParsePagination(ctx)

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// Non-admins see exactly their own record, whatever they ask for.
	if role != user.RoleAdmin {
		u, err := h.users.GetByID(cctx, actorID)

		if err != nil {
			if errors.Is(err, postgres.ErrUserNotFound) {
				ctx.JSON(http.StatusOK, PagedBody(p, 0, []user.User{}))
				return
			}

			RespondInternal(ctx, err)
			return
		}

		items := []user.User{u}

		if p.Offset() > 0 {
			items = []user.User{}
		}

		ctx.JSON(http.StatusOK, PagedBody(p, 1, items))
		return
	}

	var filter user.ListFilter

	if v := ctx.Query("name"); v != "" {
		filter.Name = &v
	}

	if v := ctx.Query("email"); v != "" {
		filter.Email = &v
	}

	if v := ctx.Query("role"); v != "" {
		filter.Role = &v
	}

	items, total, err := h.users.List(cctx, filter, p.Limit, p.Offset())

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, PagedBody(p, total, items))
}

func (h *UsersHandler) Get(ctx *gin.Context) {
	actorID, role, ok := identity(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	id := ctx.Param("id")

	if !user.CanAccess(role, actorID, id) {
		RespondForbidden(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	u, err := h.users.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// Create is the admin-initiated variant of registration; the route is
// gated by RequireRole(ADMIN).
func (h *UsersHandler) Create(ctx *gin.Context) {
	var req user.CreateUserRequest

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

	role := req.Role

	if role == "" {
		role = user.RoleUser
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

	ctx.JSON(http.StatusCreated, u)
}

func (h *UsersHandler) Update(ctx *gin.Context) {
	actorID, role, ok := identity(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	id := ctx.Param("id")

	if !user.CanAccess(role, actorID, id) {
		RespondForbidden(ctx)
		return
	}

	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	var passwordHash *string

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)

		if err != nil {
			RespondInternal(ctx, err)
			return
		}

		passwordHash = &hash
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	// role changes are admin-only; for everyone else the field is ignored
	u, err := h.users.Update(cctx, id, req, passwordHash, role == user.RoleAdmin)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		if errors.Is(err, postgres.ErrEmailTaken) {
			RespondConflict(ctx, "Email already in use")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	actorID, role, ok := identity(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Missing identity context")
		return
	}

	id := ctx.Param("id")

	if !user.CanAccess(role, actorID, id) {
		RespondForbidden(ctx)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.users.Delete(cctx, id)

	if err != nil {
		if errors.Is(err, postgres.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
