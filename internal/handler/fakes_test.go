package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/clash"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/config"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

// memoryRepository 是 Repository 的内存实现，返回的都是副本，行为与数据库一致
type memoryRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	teams  map[int64]*domain.Team
	shifts []*domain.Shift
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		users: make(map[int64]*domain.User),
		teams: make(map[int64]*domain.Team),
	}
}

func (m *memoryRepository) id() int64 {
	m.nextID++
	return m.nextID
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	if u.TeamID != nil {
		teamID := *u.TeamID
		c.TeamID = &teamID
	}
	return &c
}

func (m *memoryRepository) GetUserByID(id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyUser(u), nil
}

func (m *memoryRepository) GetUserByUsername(username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepository) GetUsersByTeamID(teamID int64) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	users := make([]*domain.User, 0)
	for id := int64(1); id <= m.nextID; id++ {
		u, ok := m.users[id]
		if ok && u.TeamID != nil && *u.TeamID == teamID {
			users = append(users, copyUser(u))
		}
	}
	return users, nil
}

func (m *memoryRepository) UpdateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[user.ID]
	if !ok || stored.Version != user.Version {
		return sql.ErrNoRows
	}
	user.Version++
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memoryRepository) CreateUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
		if u.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}

	user.ID = m.id()
	user.CreatedAt = time.Now()
	user.Version = 1
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memoryRepository) CheckEmailIfExists(email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepository) CreateTeam(team *domain.Team, creator *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.teams {
		if t.InviteCode == team.InviteCode {
			return &pgconn.PgError{Code: "23505", ConstraintName: "teams_invite_code_key"}
		}
	}
	stored, ok := m.users[creator.ID]
	if !ok || stored.Version != creator.Version {
		return sql.ErrNoRows
	}

	team.ID = m.id()
	team.CreatedAt = time.Now()
	c := *team
	m.teams[team.ID] = &c

	creator.TeamID = &team.ID
	creator.Role = domain.RoleManager
	creator.Version++
	m.users[creator.ID] = copyUser(creator)
	return nil
}

func (m *memoryRepository) GetTeamByID(id int64) (*domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.teams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *t
	return &c, nil
}

func (m *memoryRepository) GetTeamByInviteCode(code string) (*domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.teams {
		if t.InviteCode == code {
			c := *t
			return &c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memoryRepository) ListShifts(teamID int64, start, end string) ([]*domain.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	shifts := make([]*domain.Shift, 0)
	for _, s := range m.shifts {
		if s.TeamID == teamID && s.Date >= start && s.Date <= end {
			c := *s
			c.OwnerDisplayName = m.users[s.OwnerID].FullName
			shifts = append(shifts, &c)
		}
	}
	return shifts, nil
}

func (m *memoryRepository) CreateShifts(shifts []*domain.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range shifts {
		s.ID = m.id()
		s.CreatedAt = time.Now()
		c := *s
		m.shifts = append(m.shifts, &c)
	}
	return nil
}

func (m *memoryRepository) DeleteShifts(teamID, ownerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]*domain.Shift, 0, len(m.shifts))
	for _, s := range m.shifts {
		if s.TeamID != teamID || s.OwnerID != ownerID {
			kept = append(kept, s)
		}
	}
	deleted := int64(len(m.shifts) - len(kept))
	m.shifts = kept
	return deleted, nil
}

type publishedMail struct {
	Type string          `json:"type"`
	To   string          `json:"to"`
	Data json.RawMessage `json:"data"`
}

type memoryPublisher struct {
	mu    sync.Mutex
	mails []publishedMail
}

func (p *memoryPublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if key != mailQueueName {
		return nil
	}
	var mail publishedMail
	if err := json.Unmarshal(msg.Body, &mail); err != nil {
		return err
	}
	p.mails = append(p.mails, mail)
	return nil
}

func (p *memoryPublisher) sent() []publishedMail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedMail(nil), p.mails...)
}

type testEnv struct {
	h      *Handler
	repo   *memoryRepository
	mailer *memoryPublisher
	redis  *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Redis.OperationExpiration = 5
	cfg.RabbitMQ.PublishTimeout = 5
	cfg.OTP.Expiration = 900
	cfg.Upload.MaxSize = 1 << 20
	cfg.Upload.MaxFiles = 5
	cfg.Period.StartYear = 2024
	cfg.Period.Count = 12
	cfg.RateLimit.Login = 1000
	cfg.RateLimit.Upload = 1000
	cfg.Events.Buffer = 4
	cfg.Events.Heartbeat = 30
	cfg.Team.InviteCodeLength = 8

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := newMemoryRepository()
	mailer := &memoryPublisher{}

	h, err := NewHandler(cfg, repo, mailer, rdb, clash.NewBroker(cfg.Events.Buffer))
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC) }
	h.RegisterRoutes()

	return &testEnv{h: h, repo: repo, mailer: mailer, redis: mr}
}

// addUser 直接在仓库中创建用户，密码固定为 password123
func (e *testEnv) addUser(t *testing.T, username, fullName string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
		Email:        username + "@example.com",
		Role:         domain.RoleMember,
	}
	require.NoError(t, e.repo.CreateUser(user))
	return user
}

// addTeam 创建团队，owner 成为管理者，members 直接加入
func (e *testEnv) addTeam(t *testing.T, owner *domain.User, members ...*domain.User) *domain.Team {
	t.Helper()

	team := &domain.Team{Name: "前台", InviteCode: "ABCD2345", CreatedBy: owner.ID}
	require.NoError(t, e.repo.CreateTeam(team, owner))
	for _, m := range members {
		fresh, err := e.repo.GetUserByID(m.ID)
		require.NoError(t, err)
		fresh.TeamID = &team.ID
		require.NoError(t, e.repo.UpdateUser(fresh))
	}
	return team
}

func (e *testEnv) cookie(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(e.h.config.JWT.Secret))
	require.NoError(t, err)

	return &http.Cookie{Name: tokenCookieName, Value: ss}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) serve(t *testing.T, req *http.Request, user *domain.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	if user != nil {
		req.AddCookie(e.cookie(t, user))
	}
	rec := httptest.NewRecorder()
	e.h.Mux.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any, user *domain.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return e.serve(t, req, user)
}

type upload struct {
	name string
	data string
}

func (e *testEnv) doUpload(t *testing.T, path, field string, files []upload, user *domain.User) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		fw, err := mw.CreateFormFile(field, f.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.serve(t, req, user)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}
