// Package adapters converts persistence models into the shapes the
// application layer consumes.
package adapters

import (
	"context"

	"github.com/example/schedule-conflicts/internal/application"
	"github.com/example/schedule-conflicts/internal/persistence"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

// ConflictDeps fills the storage-backed collaborators of a ConflictService.
func ConflictDeps(repos persistence.Repositories) application.ConflictServiceDeps {
	return application.ConflictServiceDeps{
		Versions:   NewVersionRepository(repos.Versions),
		Schedules:  NewScheduleSource(repos.Classes, repos.Meetings),
		Directory:  NewLabelDirectory(repos.Directory),
		TimeBlocks: NewTimeBlockCatalog(repos.TimeBlocks),
	}
}

type versionRepositoryAdapter struct {
	repo persistence.ScheduleVersionRepository
}

func NewVersionRepository(repo persistence.ScheduleVersionRepository) application.VersionRepository {
	return &versionRepositoryAdapter{repo: repo}
}

func (a *versionRepositoryAdapter) GetVersion(ctx context.Context, id string) (application.ScheduleVersion, error) {
	model, err := a.repo.GetVersion(ctx, id)
	if err != nil {
		return application.ScheduleVersion{}, err
	}
	return toApplicationVersion(model), nil
}

func (a *versionRepositoryAdapter) ListVersions(ctx context.Context) ([]application.ScheduleVersion, error) {
	models, err := a.repo.ListVersions(ctx)
	if err != nil {
		return nil, err
	}
	versions := make([]application.ScheduleVersion, 0, len(models))
	for _, model := range models {
		versions = append(versions, toApplicationVersion(model))
	}
	return versions, nil
}

type scheduleSourceAdapter struct {
	classes  persistence.ClassRepository
	meetings persistence.MeetingRepository
}

func NewScheduleSource(classes persistence.ClassRepository, meetings persistence.MeetingRepository) application.ScheduleSource {
	return &scheduleSourceAdapter{classes: classes, meetings: meetings}
}

func (a *scheduleSourceAdapter) ListMeetings(ctx context.Context, versionID string) ([]scheduler.Meeting, error) {
	models, err := a.meetings.ListMeetingsByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	meetings := make([]scheduler.Meeting, 0, len(models))
	for _, model := range models {
		meetings = append(meetings, scheduler.Meeting{
			ID:          model.ID,
			ClassID:     model.ClassID,
			DayOfWeek:   model.DayOfWeek,
			StartTime:   model.StartTime,
			EndTime:     model.EndTime,
			RoomID:      cloneString(model.RoomID),
			MeetingType: model.MeetingType,
			Notes:       model.Notes,
		})
	}
	return meetings, nil
}

func (a *scheduleSourceAdapter) ListClasses(ctx context.Context, versionID string) ([]scheduler.Class, error) {
	models, err := a.classes.ListClassesByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	classes := make([]scheduler.Class, 0, len(models))
	for _, model := range models {
		classes = append(classes, scheduler.Class{
			ID:            model.ID,
			SubjectID:     model.SubjectID,
			SectionID:     cloneString(model.SectionID),
			FacultyUserID: cloneString(model.FacultyUserID),
			ClassCode:     model.ClassCode,
			Status:        model.Status,
		})
	}
	return classes, nil
}

type labelDirectoryAdapter struct {
	repo persistence.DirectoryRepository
}

func NewLabelDirectory(repo persistence.DirectoryRepository) application.LabelDirectory {
	return &labelDirectoryAdapter{repo: repo}
}

func (a *labelDirectoryAdapter) ListLabels(ctx context.Context, kind scheduler.Kind) (map[string]string, error) {
	return a.repo.ListLabels(ctx, string(kind))
}

type timeBlockCatalogAdapter struct {
	repo persistence.TimeBlockRepository
}

func NewTimeBlockCatalog(repo persistence.TimeBlockRepository) application.TimeBlockCatalog {
	return &timeBlockCatalogAdapter{repo: repo}
}

func (a *timeBlockCatalogAdapter) ListTimeBlocks(ctx context.Context, departmentID string) ([]application.TimeBlock, error) {
	models, err := a.repo.ListTimeBlocksByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	blocks := make([]application.TimeBlock, 0, len(models))
	for _, model := range models {
		blocks = append(blocks, application.TimeBlock{
			ID:    model.ID,
			Start: model.Start,
			End:   model.End,
			Label: model.Label,
		})
	}
	return blocks, nil
}

func toApplicationVersion(model persistence.ScheduleVersion) application.ScheduleVersion {
	return application.ScheduleVersion{
		ID:           model.ID,
		DepartmentID: model.DepartmentID,
		Name:         model.Name,
		Term:         model.Term,
		CreatedAt:    model.CreatedAt,
	}
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}
