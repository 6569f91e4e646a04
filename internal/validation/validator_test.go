// Pulselytics - Social Media Engagement Analytics
// Copyright 2026 Werewolf05
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Werewolf05/Pulselytics

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Platform string `validate:"required,oneof=instagram youtube twitter facebook"`
	Caption  string `validate:"required,min=1,max=20"`
	Days     int    `validate:"omitempty,gte=1,lte=90"`
}

func TestValidateStructSuccess(t *testing.T) {
	req := sampleRequest{Platform: "instagram", Caption: "hello", Days: 7}
	if verr := ValidateStruct(&req); verr != nil {
		t.Fatalf("unexpected validation error: %v", verr)
	}
}

func TestValidateStructRequired(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	errs := verr.Errors()
	if len(errs) != 2 {
		t.Fatalf("errors = %d, want 2 (platform, caption)", len(errs))
	}
	if errs[0].Message != "Platform is required" {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestValidateStructOneOf(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Platform: "myspace", Caption: "hi"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	errs := verr.Errors()
	if len(errs) != 1 || errs[0].Tag != "oneof" {
		t.Fatalf("errors = %+v, want one oneof failure", errs)
	}
	if !strings.Contains(errs[0].Message, "must be one of") {
		t.Errorf("message = %q", errs[0].Message)
	}
}

func TestValidateStructStringMax(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Platform: "twitter", Caption: strings.Repeat("x", 25)})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if got := verr.Errors()[0].Message; got != "Caption must be at most 20 characters" {
		t.Errorf("message = %q", got)
	}
}

func TestValidateStructNumericRange(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Platform: "twitter", Caption: "hi", Days: 100})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	if got := verr.Errors()[0].Message; got != "Days must be less than or equal to 90" {
		t.Errorf("message = %q", got)
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Platform: "instagram"})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if apiErr.Details["field"] != "Caption" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{})
	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("details = %v, want fields list of 2", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("message = %q, want joined messages", apiErr.Message)
	}
}

func TestRequestValidationErrorString(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{})
	if msg := verr.Error(); !strings.Contains(msg, "Platform is required") {
		t.Errorf("Error() = %q", msg)
	}
}
