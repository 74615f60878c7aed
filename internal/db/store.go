package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the hand-written query layer over the connection pool. Every
// method maps to a single statement; callers compose them and translate
// pgx.ErrNoRows into their own sentinel errors.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

type ProjectRole string

const (
	ProjectRoleOwner  ProjectRole = "owner"
	ProjectRoleEditor ProjectRole = "editor"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

// ProjectMemberDetail is a membership row joined with the member's user
// record.
type ProjectMemberDetail struct {
	UserID      string
	Role        ProjectRole
	DisplayName string
	Email       string
}

type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
	CreatedAt time.Time
}

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	return scanUser(row)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

type CreateProjectParams struct {
	ID      string
	Name    string
	OwnerID string
	Width   int32
	Height  int32
}

func (s *Store) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, owner_id, width, height)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, owner_id, width, height, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID, arg.Width, arg.Height)
	return scanProject(row)
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, width, height, created_at, updated_at
		FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

// ListProjectsForUser returns every project the user is a member of,
// most recently updated first.
func (s *Store) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.owner_id, p.width, p.height, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

// TouchProject bumps the project's updated_at so recently edited
// projects sort first.
func (s *Store) TouchProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `UPDATE projects SET updated_at = now() WHERE id = $1`, id)
	return err
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type AddProjectMemberParams struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

// AddProjectMember is idempotent: re-inviting an existing member keeps
// their current role.
func (s *Store) AddProjectMember(ctx context.Context, arg AddProjectMemberParams) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		arg.ProjectID, arg.UserID, arg.Role)
	return err
}

type GetProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) GetProjectMember(ctx context.Context, arg GetProjectMemberParams) (ProjectMember, error) {
	var m ProjectMember
	err := s.pool.QueryRow(ctx, `
		SELECT project_id, user_id, role
		FROM project_members
		WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID).Scan(&m.ProjectID, &m.UserID, &m.Role)
	return m, err
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID string) ([]ProjectMemberDetail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.user_id, m.role, u.display_name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY u.display_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []ProjectMemberDetail
	for rows.Next() {
		var m ProjectMemberDetail
		if err := rows.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type RemoveProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) RemoveProjectMember(ctx context.Context, arg RemoveProjectMemberParams) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM project_members
		WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	return err
}

type CreateSnapshotParams struct {
	ID        string
	ProjectID string
	Version   int32
	Document  []byte
}

func (s *Store) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, project_id, version, document)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, version, document, created_at`,
		arg.ID, arg.ProjectID, arg.Version, arg.Document)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}

func (s *Store) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, project_id, version, document, created_at
		FROM snapshots
		WHERE project_id = $1
		ORDER BY version DESC
		LIMIT 1`, projectID)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Document, &snap.CreatedAt)
	return snap, err
}
