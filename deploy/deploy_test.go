package deploy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golift.io/janitorr/deploy"
	"golift.io/janitorr/mocks"
)

// testClock hands out strictly increasing stamps so release names never collide.
func testClock() func() time.Time {
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	return func() time.Time {
		stamp = stamp.Add(time.Second)

		return stamp
	}
}

// testSource builds a small app tree with things that must and must not be copied.
func testSource(t *testing.T) string {
	t.Helper()
	src := t.TempDir()

	assert.Nil(t, os.WriteFile(filepath.Join(src, "app.py"), []byte("print('hi')\n"), 0o644))
	assert.Nil(t, os.MkdirAll(filepath.Join(src, "static", "css"), 0o755))
	assert.Nil(t, os.WriteFile(filepath.Join(src, "static", "css", "site.css"), []byte("body{}\n"), 0o644))
	assert.Nil(t, os.MkdirAll(filepath.Join(src, ".git"), 0o755))
	assert.Nil(t, os.WriteFile(filepath.Join(src, ".git", "HEAD"), []byte("ref\n"), 0o644))

	return src
}

func TestDeploy(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockReloader := mocks.NewMockReloader(mockCtrl)
	mockReloader.EXPECT().Reload(gomock.Any(), "myapp.service").Times(2)

	deployer := &deploy.Deployer{
		AppRoot:  t.TempDir(),
		Service:  "myapp.service",
		Reloader: mockReloader,
		Now:      testClock(),
	}

	src := testSource(t)

	first, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)
	assert.DirExists(first)
	assert.FileExists(filepath.Join(first, "app.py"))
	assert.FileExists(filepath.Join(first, "static", "css", "site.css"))
	assert.NoDirExists(filepath.Join(first, ".git"), "VCS directories are never deployed")

	assert.Equal(first, deployer.Current())

	// Second deploy: current moves, the old current becomes previous.
	second, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)
	assert.NotEqual(first, second)
	assert.Equal(second, deployer.Current())

	previous, err := os.Readlink(filepath.Join(deployer.AppRoot, deploy.PreviousLink))
	assert.Nil(err)
	assert.Equal(first, previous)
}

func TestDeployErrors(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	deployer := &deploy.Deployer{Reloader: deploy.NopReloader{}}

	_, err := deployer.Deploy(context.Background(), t.TempDir())
	assert.ErrorIs(err, deploy.ErrNoAppRoot)

	deployer.AppRoot = t.TempDir()
	_, err = deployer.Deploy(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(err, deploy.ErrNoSource)
}

func TestRollback(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	deployer := &deploy.Deployer{
		AppRoot:  t.TempDir(),
		Reloader: deploy.NopReloader{},
		Now:      testClock(),
	}

	// Nothing deployed yet: rollback is a hard error.
	assert.ErrorIs(deployer.Rollback(context.Background()), deploy.ErrNoPrevious)

	src := testSource(t)

	first, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)
	second, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)

	assert.Nil(deployer.Rollback(context.Background()))
	assert.Equal(first, deployer.Current())

	// A second rollback swaps back again.
	assert.Nil(deployer.Rollback(context.Background()))
	assert.Equal(second, deployer.Current())
}

func TestPrune(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	deployer := &deploy.Deployer{
		AppRoot:      t.TempDir(),
		KeepReleases: 2,
		Reloader:     deploy.NopReloader{},
		Now:          testClock(),
	}

	src := testSource(t)

	first, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)
	second, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)
	third, err := deployer.Deploy(context.Background(), src)
	assert.Nil(err)

	// Two retained: the oldest is gone, current and previous survive.
	assert.NoDirExists(first)
	assert.DirExists(second)
	assert.DirExists(third)
	assert.Equal(third, deployer.Current())
}
