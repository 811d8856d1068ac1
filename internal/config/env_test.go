package config

import (
	"os"
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	// Test default value
	result := GetEnv("TEST_NONEXISTENT_VAR", "default")
	if result != "default" {
		t.Errorf("Expected 'default', got %q", result)
	}

	// Test with set value
	os.Setenv("TEST_GET_ENV", "custom")
	defer os.Unsetenv("TEST_GET_ENV")

	result = GetEnv("TEST_GET_ENV", "default")
	if result != "custom" {
		t.Errorf("Expected 'custom', got %q", result)
	}
}

func TestGetBoolEnv(t *testing.T) {
	// Test default value
	result := GetBoolEnv("TEST_NONEXISTENT_BOOL", true)
	if !result {
		t.Error("Expected true default")
	}

	// Test with valid bool
	os.Setenv("TEST_BOOL_ENV", "true")
	defer os.Unsetenv("TEST_BOOL_ENV")

	result = GetBoolEnv("TEST_BOOL_ENV", false)
	if !result {
		t.Error("Expected true from 'true'")
	}

	// Test with invalid bool (should return default)
	os.Setenv("TEST_INVALID_BOOL", "yep")
	defer os.Unsetenv("TEST_INVALID_BOOL")

	result = GetBoolEnv("TEST_INVALID_BOOL", false)
	if result {
		t.Error("Expected false for invalid bool")
	}
}

func TestGetDurationEnv(t *testing.T) {
	defaultDuration := 5 * time.Second

	// Test default value
	result := GetDurationEnv("TEST_NONEXISTENT_DURATION", defaultDuration)
	if result != defaultDuration {
		t.Errorf("Expected %v, got %v", defaultDuration, result)
	}

	// Test with valid duration
	os.Setenv("TEST_DURATION_ENV", "30s")
	defer os.Unsetenv("TEST_DURATION_ENV")

	result = GetDurationEnv("TEST_DURATION_ENV", defaultDuration)
	if result != 30*time.Second {
		t.Errorf("Expected 30s, got %v", result)
	}

	// Test with milliseconds
	os.Setenv("TEST_DURATION_MS", "100ms")
	defer os.Unsetenv("TEST_DURATION_MS")

	result = GetDurationEnv("TEST_DURATION_MS", defaultDuration)
	if result != 100*time.Millisecond {
		t.Errorf("Expected 100ms, got %v", result)
	}

	// Test with invalid duration (should return default)
	os.Setenv("TEST_INVALID_DURATION", "not-a-duration")
	defer os.Unsetenv("TEST_INVALID_DURATION")

	result = GetDurationEnv("TEST_INVALID_DURATION", defaultDuration)
	if result != defaultDuration {
		t.Errorf("Expected %v for invalid duration, got %v", defaultDuration, result)
	}
}

func TestLoadRunnerConfig(t *testing.T) {
	// Defaults with a clean environment
	os.Unsetenv("KUBERUN_NAMESPACE")
	os.Unsetenv("KUBERUN_CONTAINER")
	os.Unsetenv("KUBERUN_TIMEOUT")
	os.Unsetenv("KUBERUN_DELETE_ON_TIMEOUT")

	cfg := LoadRunnerConfig()
	if cfg.Namespace != "default" {
		t.Errorf("Expected namespace 'default', got %q", cfg.Namespace)
	}
	if cfg.Container != "main" {
		t.Errorf("Expected container 'main', got %q", cfg.Container)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Expected 2m timeout, got %v", cfg.Timeout)
	}
	if cfg.DeleteOnTimeout {
		t.Error("Expected DeleteOnTimeout to default to false")
	}

	// Overrides
	os.Setenv("KUBERUN_NAMESPACE", "ci")
	os.Setenv("KUBERUN_TIMEOUT", "45s")
	os.Setenv("KUBERUN_DELETE_ON_TIMEOUT", "true")
	defer func() {
		os.Unsetenv("KUBERUN_NAMESPACE")
		os.Unsetenv("KUBERUN_TIMEOUT")
		os.Unsetenv("KUBERUN_DELETE_ON_TIMEOUT")
	}()

	cfg = LoadRunnerConfig()
	if cfg.Namespace != "ci" {
		t.Errorf("Expected namespace 'ci', got %q", cfg.Namespace)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Expected 45s timeout, got %v", cfg.Timeout)
	}
	if !cfg.DeleteOnTimeout {
		t.Error("Expected DeleteOnTimeout true")
	}
}
