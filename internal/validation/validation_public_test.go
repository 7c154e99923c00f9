// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package validation_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/assetwatch-io/assetwatch/internal/validation"
)

type ValidationPublicTestSuite struct {
	suite.Suite
}

type thresholdInput struct {
	Threshold int    `validate:"min=1,max=99"`
	Start     string `validate:"omitempty,clock_hhmm"`
}

func (s *ValidationPublicTestSuite) TestStruct() {
	tests := []struct {
		name    string
		input   thresholdInput
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "valid input",
			input:  thresholdInput{Threshold: 5, Start: "22:00"},
			wantOK: true,
		},
		{
			name:    "threshold below minimum",
			input:   thresholdInput{Threshold: 0},
			wantOK:  false,
			wantMsg: "Threshold",
		},
		{
			name:    "threshold above maximum",
			input:   thresholdInput{Threshold: 100},
			wantOK:  false,
			wantMsg: "Threshold",
		},
		{
			name:    "malformed clock string gets hint",
			input:   thresholdInput{Threshold: 5, Start: "25:99"},
			wantOK:  false,
			wantMsg: "not a 24-hour HH:mm clock string",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			msg, ok := validation.Struct(tt.input)

			s.Equal(tt.wantOK, ok)
			if tt.wantMsg != "" {
				s.Contains(msg, tt.wantMsg)
			}
		})
	}
}

func (s *ValidationPublicTestSuite) TestIsClockHHMM() {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "midnight", input: "00:00", want: true},
		{name: "end of day", input: "23:59", want: true},
		{name: "hour out of range", input: "24:00", want: false},
		{name: "minute out of range", input: "10:60", want: false},
		{name: "single digit hour", input: "9:00", want: false},
		{name: "missing separator", input: "0900", want: false},
		{name: "empty", input: "", want: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, validation.IsClockHHMM(tt.input))
		})
	}
}

func TestValidationPublicTestSuite(t *testing.T) {
	suite.Run(t, new(ValidationPublicTestSuite))
}
