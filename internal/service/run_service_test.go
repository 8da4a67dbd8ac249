package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/event-roster-api/internal/mocks"
	"github.com/event-roster-api/internal/models"
)

func TestRecordRun(t *testing.T) {
	ctx := context.Background()

	t.Run("records run with errors", func(t *testing.T) {
		runs := mocks.NewMockImportRunRepository()
		svc := newTestServices(mocks.NewMockAttendeeRepository(), runs)

		result := &models.ImportResult{
			TotalRows:         3,
			SuccessfulImports: 2,
			FailedImports:     1,
			Errors: []models.ImportError{
				{Row: 4, Message: "Email is required"},
			},
		}
		run := svc.Run.RecordRun(ctx, "roster.csv", models.RunSourceAPI, result, 50*time.Millisecond)

		if run.ID == "" {
			t.Fatal("run id not assigned")
		}
		stored := runs.Runs[run.ID]
		if stored == nil {
			t.Fatal("run not persisted")
		}
		if stored.FileName != "roster.csv" || stored.Source != models.RunSourceAPI {
			t.Errorf("stored = %+v", stored)
		}
		if stored.TotalRows != 3 || stored.SuccessfulImports != 2 || stored.FailedImports != 1 {
			t.Errorf("counts = %+v", stored)
		}
		if len(runs.Errors[run.ID]) != 1 {
			t.Errorf("persisted errors = %d", len(runs.Errors[run.ID]))
		}
	})

	t.Run("store failure does not disturb the result", func(t *testing.T) {
		runs := mocks.NewMockImportRunRepository()
		runs.CreateError = errors.New("down")
		svc := newTestServices(mocks.NewMockAttendeeRepository(), runs)

		run := svc.Run.RecordRun(ctx, "roster.csv", models.RunSourceCLI, &models.ImportResult{TotalRows: 1}, time.Millisecond)
		if run == nil || run.ID == "" {
			t.Fatal("RecordRun should still return the run")
		}
	})
}

func TestGetRun(t *testing.T) {
	ctx := context.Background()
	runs := mocks.NewMockImportRunRepository()
	svc := newTestServices(mocks.NewMockAttendeeRepository(), runs)

	result := &models.ImportResult{
		TotalRows:     2,
		FailedImports: 2,
		Errors: []models.ImportError{
			{Row: 2, Message: "Email is required"},
			{Row: 3, Message: "Phone number is required"},
		},
	}
	run := svc.Run.RecordRun(ctx, "roster.csv", models.RunSourceAPI, result, time.Millisecond)

	t.Run("found", func(t *testing.T) {
		resp, err := svc.Run.GetRun(ctx, run.ID)
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if resp == nil {
			t.Fatal("run not found")
		}
		if len(resp.Errors) != 2 {
			t.Errorf("inline errors = %d", len(resp.Errors))
		}
		if resp.ErrorCount != 2 {
			t.Errorf("ErrorCount = %d", resp.ErrorCount)
		}
	})

	t.Run("not found", func(t *testing.T) {
		resp, err := svc.Run.GetRun(ctx, "missing")
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if resp != nil {
			t.Errorf("expected nil, got %+v", resp)
		}
	})
}
