package course_test

import (
	"context"
	"errors"
	"testing"

	"github.com/qbacid/DentorAcademy/internal/course"
	"github.com/qbacid/DentorAcademy/internal/video"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := db.AutoMigrate(course.Entities()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// stubVideos accepts any syntactically valid Vimeo URL and reports a fixed
// duration, except ids listed in missing.
type stubVideos struct {
	missing map[string]bool
}

func (s *stubVideos) Metadata(ctx context.Context, videoID string) (*video.Metadata, error) {
	if s.missing[videoID] {
		return nil, video.ErrVideoNotFound
	}
	return &video.Metadata{VideoID: videoID, Title: "stub", DurationSeconds: 300}, nil
}

func (s *stubVideos) Validate(ctx context.Context, rawURL string) (*video.Metadata, error) {
	videoID, err := video.ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}
	return s.Metadata(ctx, videoID)
}

func newCourseService(t *testing.T) (course.Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	repo := course.NewRepository(db)
	return course.NewService(db, repo, &stubVideos{missing: map[string]bool{"404404": true}}), db
}

func strPtr(s string) *string { return &s }

func TestCourseCRUDAndPublication(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService(t)

	created, err := svc.CreateCourse(ctx, course.CourseUpdate{
		Title:       "Restorative Dentistry",
		Description: strPtr("Fillings and crowns"),
	})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	if created.IsPublished {
		t.Error("new courses must start unpublished")
	}

	published, err := svc.Publish(ctx, created.ID)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !published.IsPublished {
		t.Error("expected course published")
	}

	cards, err := svc.ListPublished(ctx, nil)
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}
	if len(cards) != 1 || cards[0].ID != created.ID {
		t.Errorf("unexpected catalog: %+v", cards)
	}

	if _, err := svc.Unpublish(ctx, created.ID); err != nil {
		t.Fatalf("Unpublish returned error: %v", err)
	}
	cards, err = svc.ListPublished(ctx, nil)
	if err != nil {
		t.Fatalf("ListPublished returned error: %v", err)
	}
	if len(cards) != 0 {
		t.Errorf("unpublished course still in catalog: %+v", cards)
	}

	if err := svc.DeleteCourse(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCourse returned error: %v", err)
	}
	if _, err := svc.GetCourse(ctx, created.ID); !errors.Is(err, course.ErrCourseNotFound) {
		t.Errorf("expected ErrCourseNotFound after delete, got %v", err)
	}
}

func TestCreateCourseWithUnknownCategory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService(t)

	missing := uint(999)
	_, err := svc.CreateCourse(ctx, course.CourseUpdate{Title: "Orphan", CategoryID: &missing})
	if !errors.Is(err, course.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestModuleOrdering(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService(t)

	c, err := svc.CreateCourse(ctx, course.CourseUpdate{Title: "Prosthodontics"})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}

	first, err := svc.AddModule(ctx, c.ID, course.ModuleUpdate{Title: "Intro"})
	if err != nil {
		t.Fatalf("AddModule returned error: %v", err)
	}
	second, err := svc.AddModule(ctx, c.ID, course.ModuleUpdate{Title: "Materials"})
	if err != nil {
		t.Fatalf("AddModule returned error: %v", err)
	}
	if first.OrderIndex != 0 || second.OrderIndex != 1 {
		t.Errorf("order indexes = %d, %d; want 0, 1", first.OrderIndex, second.OrderIndex)
	}

	if err := svc.ReorderModules(ctx, c.ID, []uint{second.ID, first.ID}); err != nil {
		t.Fatalf("ReorderModules returned error: %v", err)
	}

	loaded, err := svc.GetCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCourse returned error: %v", err)
	}
	if len(loaded.Modules) != 2 {
		t.Fatalf("got %d modules, want 2", len(loaded.Modules))
	}
	if loaded.Modules[0].ID != second.ID {
		t.Errorf("first module = %d, want %d after reorder", loaded.Modules[0].ID, second.ID)
	}
}

func TestAddContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCourseService(t)

	c, err := svc.CreateCourse(ctx, course.CourseUpdate{Title: "Oral Surgery"})
	if err != nil {
		t.Fatalf("CreateCourse returned error: %v", err)
	}
	m, err := svc.AddModule(ctx, c.ID, course.ModuleUpdate{Title: "Extractions"})
	if err != nil {
		t.Fatalf("AddModule returned error: %v", err)
	}

	t.Run("VideoCapturesDuration", func(t *testing.T) {
		content, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Technique demo",
			ContentType: "Video",
			VideoURL:    strPtr("https://vimeo.com/123456789"),
		})
		if err != nil {
			t.Fatalf("AddContent returned error: %v", err)
		}
		if content.VideoDurationSeconds == nil || *content.VideoDurationSeconds != 300 {
			t.Errorf("VideoDurationSeconds = %v, want 300", content.VideoDurationSeconds)
		}
	})

	t.Run("VideoNotFoundRejected", func(t *testing.T) {
		_, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Broken link",
			ContentType: "Video",
			VideoURL:    strPtr("https://vimeo.com/404404"),
		})
		if !errors.Is(err, video.ErrVideoNotFound) {
			t.Errorf("expected ErrVideoNotFound, got %v", err)
		}
	})

	t.Run("InvalidVideoURLRejected", func(t *testing.T) {
		_, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Wrong host",
			ContentType: "Video",
			VideoURL:    strPtr("https://youtube.com/watch?v=abc"),
		})
		if !errors.Is(err, video.ErrInvalidVideoURL) {
			t.Errorf("expected ErrInvalidVideoURL, got %v", err)
		}
	})

	t.Run("MissingReference", func(t *testing.T) {
		_, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "No quiz id",
			ContentType: "Quiz",
		})
		if !errors.Is(err, course.ErrMissingContentRef) {
			t.Errorf("expected ErrMissingContentRef, got %v", err)
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		_, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Podcast",
			ContentType: "Audio",
		})
		if !errors.Is(err, course.ErrInvalidContentType) {
			t.Errorf("expected ErrInvalidContentType, got %v", err)
		}
	})

	t.Run("DocumentAndQuiz", func(t *testing.T) {
		doc, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Aftercare sheet",
			ContentType: "Document",
			DocumentURL: strPtr("https://cdn.example.com/aftercare.pdf"),
		})
		if err != nil {
			t.Fatalf("AddContent returned error: %v", err)
		}
		if doc.ContentType != course.ContentDocument {
			t.Errorf("ContentType = %q", doc.ContentType)
		}

		quizID := uint(7)
		quizContent, err := svc.AddContent(ctx, m.ID, course.ContentUpdate{
			Title:       "Module quiz",
			ContentType: "quiz",
			QuizID:      &quizID,
		})
		if err != nil {
			t.Fatalf("AddContent returned error: %v", err)
		}
		if quizContent.QuizID == nil || *quizContent.QuizID != quizID {
			t.Errorf("QuizID = %v, want %d", quizContent.QuizID, quizID)
		}
	})
}
