package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/penwellapp/penwell-server/internal/auth"
	"github.com/penwellapp/penwell-server/internal/media"
	"github.com/penwellapp/penwell-server/internal/service"
)

// ProvideAuthService provides registration, login and token checks.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewAuthService(storeHandle.Store, tokens, log), nil
}

// ProvideUserService provides account management.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewUserService(storeHandle.Store, log), nil
}

// ProvidePostService provides post publishing and listings.
func ProvidePostService(i do.Injector) (*service.PostService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	covers := do.MustInvoke[*media.CoverStorage](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewPostService(storeHandle.Store, covers, log), nil
}

// ProvideCategoryService provides category management.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewCategoryService(storeHandle.Store, log), nil
}

// ProvideCommentService provides comments on posts.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewCommentService(storeHandle.Store, log), nil
}

// ProvideAdminService provides the dashboard and comment browser.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*slog.Logger](i)
	return service.NewAdminService(storeHandle.Store, log), nil
}
