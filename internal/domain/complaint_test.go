package domain

import "testing"

func TestComplaintStatusIsValid(t *testing.T) {
	t.Parallel()

	for _, status := range ComplaintStatuses() {
		if !status.IsValid() {
			t.Errorf("expected %q to be valid", status)
		}
	}

	invalid := []ComplaintStatus{"", "open", "closed", "PENDING", "in_progress", "done"}
	for _, status := range invalid {
		if status.IsValid() {
			t.Errorf("expected %q to be invalid", status)
		}
	}
}
