package db2check

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThresholdClassify(t *testing.T) {
	threshold, err := NewThreshold(5, 10)
	assert.NoError(t, err)

	testCases := []struct {
		measurement int
		expected    Status
	}{
		{0, StatusOK},
		{4, StatusOK},
		{5, StatusWarning},
		{9, StatusWarning},
		{10, StatusCritical},
		{11, StatusCritical},
		{1000, StatusCritical},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, threshold.Classify(testCase.measurement),
			"unexpected classification for measurement %d", testCase.measurement)
	}
}

func TestThresholdValidate(t *testing.T) {
	testCases := []struct {
		warning  int
		critical int
		valid    bool
	}{
		{1, 2, true},
		{5, 10, true},
		{10, 10, false},
		{10, 5, false},
		{0, 10, false},
		{-1, 10, false},
		{5, 0, false},
	}

	for _, testCase := range testCases {
		_, err := NewThreshold(testCase.warning, testCase.critical)
		if testCase.valid {
			assert.NoError(t, err, "threshold %d/%d should be valid", testCase.warning, testCase.critical)
		} else {
			assert.Error(t, err, "threshold %d/%d should be invalid", testCase.warning, testCase.critical)
		}
	}
}

func TestStatusExitCode(t *testing.T) {
	assert.Equal(t, 0, StatusOK.ExitCode())
	assert.Equal(t, 1, StatusWarning.ExitCode())
	assert.Equal(t, 2, StatusCritical.ExitCode())
	assert.Equal(t, 3, StatusUnknown.ExitCode())
	assert.Equal(t, 3, Status(42).ExitCode())
}

func TestMergeStatus(t *testing.T) {
	assert.Equal(t, StatusCritical, MergeStatus(StatusWarning, StatusCritical))
	assert.Equal(t, StatusCritical, MergeStatus(StatusCritical, StatusOK))
	assert.Equal(t, StatusUnknown, MergeStatus(StatusUnknown, StatusCritical))
	assert.Equal(t, StatusUnknown, MergeStatus(StatusOK, StatusUnknown))
	assert.Equal(t, StatusOK, MergeStatus(StatusOK, StatusOK))
}
