package regiotesting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/require"
)

type TestContext struct {
	Log logger.Logger
	T   *testing.T
	Dir string
}

type TestConfig struct {
	TestLabelPrefix string
	// LogLevel defaults to NOOP
	LogLevel string
}

// NewTestContext sets up logging and a private directory for file backed
// resources. The directory is removed when the test ends.
func NewTestContext(t *testing.T, cfg TestConfig) TestContext {
	level := cfg.LogLevel
	if level == "" {
		level = "NOOP"
	}
	logger.New(level)
	t.Cleanup(logger.OnExit)

	return TestContext{
		T:   t,
		Log: logger.Sugar.WithServiceName(cfg.TestLabelPrefix),
		Dir: t.TempDir(),
	}
}

func (c *TestContext) GetLog() logger.Logger { return c.Log }

// Path returns the path of a file in the test directory.
func (c *TestContext) Path(name string) string {
	return filepath.Join(c.Dir, name)
}

// CreateFile writes data to a new file in the test directory and returns its
// path.
func (c *TestContext) CreateFile(name string, data []byte) string {
	path := c.Path(name)
	require.NoError(c.T, os.WriteFile(path, data, 0o644))
	return path
}

// ReadFile returns the content of a file in the test directory.
func (c *TestContext) ReadFile(name string) []byte {
	data, err := os.ReadFile(c.Path(name))
	require.NoError(c.T, err)
	return data
}
