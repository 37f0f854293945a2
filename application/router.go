package application

import "github.com/gin-gonic/gin"

// Router registers a group of routes. The Application gives access to the
// interceptor and the DI container.
type Router interface {
	Register(engine *gin.Engine, app *Application)
}

// RouterFunc functional Router
type RouterFunc func(engine *gin.Engine, app *Application)

// Register calls f
func (f RouterFunc) Register(engine *gin.Engine, app *Application) {
	f(engine, app)
}

// Manager keeps routers in registration order
type Manager struct {
	routers []Router
}

// NewManager creates an empty router manager
func NewManager() *Manager {
	return &Manager{routers: make([]Router, 0)}
}

// Add appends routers
func (m *Manager) Add(routers ...Router) *Manager {
	m.routers = append(m.routers, routers...)
	return m
}

// AddFunc appends a functional router
func (m *Manager) AddFunc(fn func(engine *gin.Engine, app *Application)) *Manager {
	m.routers = append(m.routers, RouterFunc(fn))
	return m
}

// Len number of routers
func (m *Manager) Len() int {
	return len(m.routers)
}

// Register registers every router on engine
func (m *Manager) Register(engine *gin.Engine, app *Application) {
	for _, router := range m.routers {
		router.Register(engine, app)
	}
}
