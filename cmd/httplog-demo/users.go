package main

import (
	"net/http"
	"sort"
	"sync"

	"github.com/KOMKZ/go-yogan-httplog/application"
	"github.com/KOMKZ/go-yogan-httplog/errcode"
	"github.com/KOMKZ/go-yogan-httplog/httplog"
	"github.com/KOMKZ/go-yogan-httplog/httpx"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var errUserNotFound = errcode.New(2, 1001, "user", "not found", http.StatusNotFound)

// User demo resource
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type GetUserRequest struct {
	ID int64 `uri:"id"`
}

func (r *GetUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required, validation.Min(int64(1))),
	)
}

type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
	)
}

// UserController in-memory user API
type UserController struct {
	mu     sync.RWMutex
	users  map[int64]*User
	nextID int64
}

func NewUserController() *UserController {
	return &UserController{users: make(map[int64]*User), nextID: 1}
}

// Get typed handler
func (u *UserController) Get(_ *gin.Context, req *GetUserRequest) (*User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[req.ID]
	if !ok {
		return nil, errUserNotFound
	}
	return user, nil
}

// Create typed handler
func (u *UserController) Create(_ *gin.Context, req *CreateUserRequest) (*User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	user := &User{ID: u.nextID, Name: req.Name, Email: req.Email}
	u.users[user.ID] = user
	u.nextID++
	return user, nil
}

// List plain gin handler, intercepted by the group middleware
func (u *UserController) List(c *gin.Context) {
	u.mu.RLock()
	users := make([]*User, 0, len(u.users))
	for _, user := range u.users {
		users = append(users, user)
	}
	u.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	httpx.OkJson(c, users)
}

// registerRoutes typed handlers go through httplog.Handle; plain gin ones through the middleware
func registerRoutes(engine *gin.Engine, app *application.Application) {
	icpt := app.Interceptor()
	users := NewUserController()

	api := engine.Group("/api")
	api.GET("/users", icpt.Middleware(), users.List)
	api.GET("/users/:id", httplog.HandleNamed(icpt, "UserController.get", users.Get))
	api.POST("/users", httplog.Handle(icpt, users.Create))
}
