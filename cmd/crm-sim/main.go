package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Person is a CRM contact record.
type Person struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Emails       []string               `json:"email,omitempty"`
	Phones       []string               `json:"phone,omitempty"`
	OrgName      string                 `json:"org_name,omitempty"`
	CustomFields map[string]interface{} `json:"custom_fields,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Deal is a CRM sales opportunity.
type Deal struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Title     string    `json:"title"`
	Value     float64   `json:"value"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text annotation on a person.
type Note struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type createPersonRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Emails       []string               `json:"email"`
	Phones       []string               `json:"phone"`
	OrgName      string                 `json:"org_name"`
	CustomFields map[string]interface{} `json:"custom_fields"`
}

type createDealRequest struct {
	PersonID int64   `json:"person_id" binding:"required"`
	Title    string  `json:"title" binding:"required"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type createNoteRequest struct {
	PersonID int64  `json:"person_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
}

// MockCRM keeps everything in memory and can inject failures to
// exercise the client's retry path.
type MockCRM struct {
	mu          sync.Mutex
	persons     map[int64]*Person
	deals       map[int64]*Deal
	notes       map[int64]*Note
	nextID      int64
	failureRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
	instanceID  string
	rng         *rand.Rand
}

func NewMockCRM(failureRate float64, minDelay, maxDelay time.Duration) *MockCRM {
	return &MockCRM{
		persons:     make(map[int64]*Person),
		deals:       make(map[int64]*Deal),
		notes:       make(map[int64]*Note),
		nextID:      1,
		failureRate: failureRate,
		minDelay:    minDelay,
		maxDelay:    maxDelay,
		instanceID:  "MOCK_CRM_" + uuid.New().String()[:8],
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *MockCRM) allocateID() int64 {
	id := m.nextID
	m.nextID++
	return id
}

func (m *MockCRM) simulateLatency() {
	if m.maxDelay <= m.minDelay {
		return
	}
	delta := time.Duration(m.rng.Int63n(int64(m.maxDelay - m.minDelay)))
	time.Sleep(m.minDelay + delta)
}

func (m *MockCRM) shouldFail() bool {
	return m.rng.Float64() < m.failureRate
}

type Handler struct {
	crm *MockCRM
}

func NewHandler(crm *MockCRM) *Handler {
	return &Handler{crm: crm}
}

func (h *Handler) envelope(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func (h *Handler) failure(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// injectFault returns true when the request was rejected with a
// simulated outage.
func (h *Handler) injectFault(c *gin.Context) bool {
	if h.crm.shouldFail() {
		log.Warn().Str("path", c.Request.URL.Path).Msg("Simulated CRM outage")
		h.failure(c, http.StatusServiceUnavailable, "CRM temporarily unavailable")
		return true
	}
	return false
}

func (h *Handler) CreatePerson(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if h.injectFault(c) {
		return
	}
	h.crm.simulateLatency()

	h.crm.mu.Lock()
	person := &Person{
		ID:           h.crm.allocateID(),
		Name:         req.Name,
		Emails:       req.Emails,
		Phones:       req.Phones,
		OrgName:      req.OrgName,
		CustomFields: req.CustomFields,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	h.crm.persons[person.ID] = person
	h.crm.mu.Unlock()

	log.Info().Int64("person_id", person.ID).Str("name", person.Name).Msg("Person created")
	h.envelope(c, http.StatusCreated, person)
}

func (h *Handler) UpdatePerson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.failure(c, http.StatusBadRequest, "invalid person id")
		return
	}

	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if h.injectFault(c) {
		return
	}
	h.crm.simulateLatency()

	h.crm.mu.Lock()
	person, ok := h.crm.persons[id]
	if !ok {
		h.crm.mu.Unlock()
		h.failure(c, http.StatusNotFound, "person not found")
		return
	}
	person.Name = req.Name
	person.Emails = req.Emails
	person.Phones = req.Phones
	person.OrgName = req.OrgName
	person.CustomFields = req.CustomFields
	person.UpdatedAt = time.Now().UTC()
	h.crm.mu.Unlock()

	log.Info().Int64("person_id", person.ID).Msg("Person updated")
	h.envelope(c, http.StatusOK, person)
}

func (h *Handler) GetPerson(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.failure(c, http.StatusBadRequest, "invalid person id")
		return
	}

	h.crm.mu.Lock()
	person, ok := h.crm.persons[id]
	h.crm.mu.Unlock()

	if !ok {
		h.failure(c, http.StatusNotFound, "person not found")
		return
	}
	h.envelope(c, http.StatusOK, person)
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var req createDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if h.injectFault(c) {
		return
	}
	h.crm.simulateLatency()

	h.crm.mu.Lock()
	if _, ok := h.crm.persons[req.PersonID]; !ok {
		h.crm.mu.Unlock()
		h.failure(c, http.StatusNotFound, "person not found")
		return
	}
	deal := &Deal{
		ID:        h.crm.allocateID(),
		PersonID:  req.PersonID,
		Title:     req.Title,
		Value:     req.Value,
		Status:    "open",
		CreatedAt: time.Now().UTC(),
	}
	h.crm.deals[deal.ID] = deal
	h.crm.mu.Unlock()

	log.Info().Int64("deal_id", deal.ID).Int64("person_id", deal.PersonID).Msg("Deal created")
	h.envelope(c, http.StatusCreated, deal)
}

func (h *Handler) CreateNote(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.failure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}
	if h.injectFault(c) {
		return
	}

	h.crm.mu.Lock()
	note := &Note{
		ID:        h.crm.allocateID(),
		PersonID:  req.PersonID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	h.crm.notes[note.ID] = note
	h.crm.mu.Unlock()

	h.envelope(c, http.StatusCreated, note)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	h.crm.mu.Lock()
	persons := len(h.crm.persons)
	deals := len(h.crm.deals)
	h.crm.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"instance_id":  h.crm.instanceID,
		"timestamp":    time.Now().UTC(),
		"failure_rate": h.crm.failureRate,
		"persons":      persons,
		"deals":        deals,
	})
}

// UpdateConfig changes the failure rate at runtime, for chaos testing.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var cfg struct {
		FailureRate *float64 `json:"failure_rate"`
	}

	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.failure(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if cfg.FailureRate != nil && *cfg.FailureRate >= 0 && *cfg.FailureRate <= 1.0 {
		h.crm.failureRate = *cfg.FailureRate
		log.Info().Float64("rate", *cfg.FailureRate).Msg("Updated failure rate")
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Configuration updated",
		"failure_rate": h.crm.failureRate,
	})
}

func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("Request processed")
	})

	router.POST("/persons", handler.CreatePerson)
	router.PUT("/persons/:id", handler.UpdatePerson)
	router.GET("/persons/:id", handler.GetPerson)
	router.POST("/deals", handler.CreateDeal)
	router.POST("/notes", handler.CreateNote)
	router.PUT("/config", handler.UpdateConfig)
	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	failureRate := getEnvFloat("FAILURE_RATE", 0)
	minDelay := getEnvDuration("MIN_DELAY", 50*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 300*time.Millisecond)

	log.Info().
		Str("port", port).
		Float64("failure_rate", failureRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("Starting Mock CRM")

	crm := NewMockCRM(failureRate, minDelay, maxDelay)
	handler := NewHandler(crm)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
