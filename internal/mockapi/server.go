// Package mockapi is an in-memory stand-in for the laundry REST API and the
// phone identity provider, used for local development and end-to-end tests.
package mockapi

import (
	"errors"
	"log"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/utils"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"

	refreshTTL = 7 * 24 * time.Hour

	// DevOTPCode is accepted for every phone challenge.
	DevOTPCode = "123456"
)

type Config struct {
	JWTSecret     string
	AccessTTL     time.Duration
	AdminPhone    string
	AdminPassword string
	SeedCatalog   bool
	Quiet         bool
}

type account struct {
	user         models.User
	passwordHash string
}

// Server holds the mock state. All handlers serialize on mu.
type Server struct {
	cfg Config
	app *fiber.App

	mu          sync.Mutex
	accounts    map[string]*account
	phones      map[string]string
	access      map[string]struct{}
	refresh     map[string]string
	otpSessions map[string]string
	idTokens    map[string]string
	services    []models.Service
	orders      []models.Order
	refreshes   int
}

func New(cfg Config) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("mock API needs a JWT secret")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}

	s := &Server{
		cfg:         cfg,
		accounts:    make(map[string]*account),
		phones:      make(map[string]string),
		access:      make(map[string]struct{}),
		refresh:     make(map[string]string),
		otpSessions: make(map[string]string),
		idTokens:    make(map[string]string),
	}

	if cfg.AdminPhone != "" {
		if _, err := s.addAccount(models.User{
			Phone:      cfg.AdminPhone,
			Name:       "Admin",
			Role:       models.RoleAdmin,
			IsVerified: true,
		}, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}
	if cfg.SeedCatalog {
		s.seedCatalog()
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "LaundryPro Mock API",
		DisableStartupMessage: cfg.Quiet,
		ErrorHandler:          errorHandler,
		BodyLimit:             8 * 1024 * 1024,
	})
	s.app.Use(recover.New())
	if !cfg.Quiet {
		s.app.Use(logger.New())
	}
	s.routes()
	return s, nil
}

// App exposes the Fiber app, e.g. for app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Serve runs on an existing listener until Shutdown.
func (s *Server) Serve(ln net.Listener) error { return s.app.Listener(ln) }

func (s *Server) Shutdown() error { return s.app.Shutdown() }

// ExpireAccessTokens makes every issued access token answer 410.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]struct{})
}

// RevokeRefreshTokens makes every refresh attempt fail.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = make(map[string]string)
}

// RefreshCount is the number of successful session refreshes.
func (s *Server) RefreshCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshes
}

// AddAccount registers a user with an optional password. It returns the stored user.
func (s *Server) AddAccount(u models.User, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccount(u, password)
}

func (s *Server) addAccount(u models.User, password string) (models.User, error) {
	if _, exists := s.phones[u.Phone]; exists {
		return models.User{}, fiber.NewError(fiber.StatusConflict, "Phone number already registered")
	}

	now := time.Now().UTC()
	u.ID = uuid.NewString()
	if u.Role == "" {
		u.Role = models.RoleCustomer
	}
	if u.Status == "" {
		u.Status = models.UserActive
	}
	u.CreatedAt, u.UpdatedAt = now, now

	acc := &account{user: u}
	if password != "" {
		hash, err := utils.HashPassword(password)
		if err != nil {
			return models.User{}, err
		}
		acc.passwordHash = hash
		acc.user.HasPassword = true
	}

	s.accounts[u.ID] = acc
	s.phones[u.Phone] = u.ID
	return acc.user, nil
}

func (s *Server) seedCatalog() {
	seed := []models.Service{
		{Name: "Giặt thường", Category: "Giặt sấy", Price: 15000, Unit: "kg", Active: true},
		{Name: "Giặt khô", Category: "Giặt khô", Price: 45000, Unit: "bộ", Active: true},
		{Name: "Ủi đồ", Category: "Ủi", Price: 10000, Unit: "cái", Active: true},
	}
	for _, svc := range seed {
		s.insertService(svc)
	}
}

func (s *Server) insertService(svc models.Service) models.Service {
	now := time.Now().UTC()
	svc.ID = uuid.NewString()
	svc.CreatedAt, svc.UpdatedAt = now, now
	s.services = append([]models.Service{svc}, s.services...)
	return svc
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("[MockAPI] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(models.Envelope[any]{Message: message})
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(models.Envelope[any]{Success: true, Data: data})
}

func created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(models.Envelope[any]{Success: true, Message: message, Data: data})
}

func paginate[T any](items []T, pg utils.Pagination) ([]T, models.Pagination) {
	meta := models.Pagination{
		Page:       pg.Page,
		Limit:      pg.Limit,
		Total:      len(items),
		TotalPages: pg.TotalPages(len(items)),
	}
	if pg.Offset >= len(items) {
		return []T{}, meta
	}
	end := pg.Offset + pg.Limit
	if end > len(items) {
		end = len(items)
	}
	return append([]T(nil), items[pg.Offset:end]...), meta
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// sortedUsers returns users newest first.
func (s *Server) sortedUsers(keep func(models.User) bool) []models.User {
	var out []models.User
	for _, acc := range s.accounts {
		if keep(acc.user) {
			out = append(out, acc.user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
