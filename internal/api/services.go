package api

import "github.com/penwellapp/penwell-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Users      *service.UserService
	Posts      *service.PostService
	Categories *service.CategoryService
	Comments   *service.CommentService
	Admin      *service.AdminService
}
