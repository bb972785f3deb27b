package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReportDoctor_JSONStructure(t *testing.T) {
	results := []DoctorResult{
		{Name: "config", Status: "pass", Message: "all required values present"},
		{Name: "notion", Status: "skip", Message: "fix config first"},
	}

	var runErr error
	out := captureStdout(t, func() {
		runErr = reportDoctor(results, true)
	})
	if runErr != nil {
		t.Fatalf("reportDoctor with no failures returned error: %v", runErr)
	}

	var report struct {
		Checks  []DoctorResult `json:"checks"`
		Summary struct {
			Total   int `json:"total"`
			Passed  int `json:"passed"`
			Skipped int `json:"skipped"`
			Failed  int `json:"failed"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("doctor JSON output should parse: %v (%q)", err, out)
	}
	if report.Summary.Total != 2 || report.Summary.Passed != 1 || report.Summary.Skipped != 1 {
		t.Fatalf("summary = %+v", report.Summary)
	}
}

func TestReportDoctor_FailuresReturnError(t *testing.T) {
	results := []DoctorResult{
		{Name: "config", Status: "fail", Message: "NOTION_TOKEN missing"},
	}

	var runErr error
	captureStdout(t, func() {
		runErr = reportDoctor(results, true)
	})
	if runErr == nil {
		t.Fatal("expected error when a check fails")
	}
	if !strings.Contains(runErr.Error(), "1 of 1") {
		t.Errorf("error = %v, want failed-check count", runErr)
	}
}
