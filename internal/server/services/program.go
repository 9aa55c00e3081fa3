package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vkazmin/bountyboard/internal/common"
	"github.com/vkazmin/bountyboard/internal/server/models"
	"github.com/vkazmin/bountyboard/internal/server/repositories/repomanager"
)

// ProgramService manages bounty program definitions. Stats columns on a
// program are owned by the lifecycle engine; this service only ever writes
// the descriptive fields.
type ProgramService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProgramService(db *sql.DB, m repomanager.RepositoryManager) *ProgramService {
	return &ProgramService{db: db, repomanager: m}
}

func validateProgram(p *models.Program) error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	return nil
}

func (s *ProgramService) Create(ctx context.Context, p *models.Program) (*models.Program, error) {
	if err := validateProgram(p); err != nil {
		return nil, err
	}
	return s.repomanager.Programs(s.db).Create(ctx, p)
}

func (s *ProgramService) Update(ctx context.Context, p *models.Program) error {
	if err := validateProgram(p); err != nil {
		return err
	}
	return s.repomanager.Programs(s.db).Update(ctx, p)
}

// Delete removes a program. Its submissions go with it via the schema's
// cascade rule.
func (s *ProgramService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Programs(s.db).Delete(ctx, id)
}

func (s *ProgramService) Get(ctx context.Context, id int64) (*models.Program, error) {
	return s.repomanager.Programs(s.db).GetByID(ctx, id)
}

func (s *ProgramService) List(ctx context.Context) ([]*models.Program, error) {
	return s.repomanager.Programs(s.db).List(ctx)
}

// ListLatest returns the newest programs for the landing page.
func (s *ProgramService) ListLatest(ctx context.Context, limit int) ([]*models.Program, error) {
	return s.repomanager.Programs(s.db).ListLatest(ctx, limit)
}
