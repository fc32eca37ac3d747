package quiz

import (
	"github.com/qbacid/DentorAcademy/internal/storage"
	"gorm.io/gorm"
)

type QuizContainer struct {
	Handler *Handler
	Taking  TakingService
	Scoring ScoringService
}

func NewQuizContainer(db *gorm.DB) *QuizContainer {
	repo := NewRepository(db)
	scoring := NewScoringService(db, repo)
	taking := NewTakingService(db, repo, scoring)
	importer := NewImportService(db, storage.DefaultTxRunner())
	management := NewManagementService(db, repo)
	handler := NewHandler(importer, taking, scoring, management)

	return &QuizContainer{
		Handler: handler,
		Taking:  taking,
		Scoring: scoring,
	}
}
