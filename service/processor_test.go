package service

import (
	"testing"

	"ReelsWizard-server/models"
)

func TestTaskSettled(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.TaskStatusPending, false},
		{models.TaskStatusProcessing, false},
		{models.TaskStatusFinished, true},
		{models.TaskStatusFailed, true},
	}
	for _, tt := range tests {
		if got := taskSettled(tt.status); got != tt.want {
			t.Errorf("taskSettled(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
