package diskmon_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"golift.io/janitorr/diskmon"
	"golift.io/janitorr/mocks"
)

var errTest = fmt.Errorf("this is a test error")

func TestUsedPercent(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	// Round up, the way df does.
	assert.Equal(90, diskmon.Usage{TotalBytes: 100, FreeBytes: 10, AvailBytes: 10}.UsedPercent())
	assert.Equal(91, diskmon.Usage{TotalBytes: 1000, FreeBytes: 100, AvailBytes: 95}.UsedPercent())
	assert.Equal(0, diskmon.Usage{}.UsedPercent())
	assert.Equal(100, diskmon.Usage{TotalBytes: 100, FreeBytes: 0, AvailBytes: 0}.UsedPercent())
}

func TestNewChecker(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	_, err := diskmon.NewChecker(-1, nil)
	assert.ErrorIs(err, diskmon.ErrBadThreshold)

	_, err = diskmon.NewChecker(101, nil)
	assert.ErrorIs(err, diskmon.ErrBadThreshold)

	checker, err := diskmon.NewChecker(0, nil)
	assert.Nil(err)
	assert.NotNil(checker)
}

func TestCheck(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	mockNotifier := mocks.NewMockNotifier(mockCtrl)

	checker, err := diskmon.NewChecker(90, mockNotifier)
	assert.Nil(err)

	checker.Mounts = func() ([]diskmon.Mount, error) {
		return []diskmon.Mount{
			{Device: "/dev/sda1", MountPoint: "/", FSType: "ext4"},
			{Device: "proc", MountPoint: "/proc", FSType: "proc"},
			{Device: "tmpfs", MountPoint: "/run", FSType: "tmpfs"},
			{Device: "/dev/sdb1", MountPoint: "/data", FSType: "xfs"},
		}, nil
	}
	checker.Statfs = func(path string) (diskmon.Usage, error) {
		if path == "/" {
			// Exactly at the threshold. The boundary is inclusive.
			return diskmon.Usage{TotalBytes: 100, FreeBytes: 10, AvailBytes: 10}, nil
		}

		return diskmon.Usage{TotalBytes: 100, FreeBytes: 50, AvailBytes: 50}, nil
	}

	mockNotifier.EXPECT().Notify(gomock.Any()).DoAndReturn(func(status diskmon.Status) error {
		assert.Equal("/", status.MountPoint)
		assert.Equal(90, status.UsedPercent)

		return nil
	})

	statuses, err := checker.Check()
	assert.Nil(err)
	assert.Len(statuses, 2, "pseudo filesystems must be filtered out")

	assert.Equal(diskmon.Warning, statuses[0].State)
	assert.Equal(diskmon.Ok, statuses[1].State)
	assert.Equal(50, statuses[1].UsedPercent)
}

func TestCheckStatfsFailure(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	checker, err := diskmon.NewChecker(90, nil)
	assert.Nil(err)

	checker.Mounts = func() ([]diskmon.Mount, error) {
		return []diskmon.Mount{
			{Device: "/dev/sda1", MountPoint: "/broken", FSType: "ext4"},
			{Device: "/dev/sdb1", MountPoint: "/data", FSType: "xfs"},
		}, nil
	}
	checker.Statfs = func(path string) (diskmon.Usage, error) {
		if path == "/broken" {
			return diskmon.Usage{}, errTest
		}

		return diskmon.Usage{TotalBytes: 100, FreeBytes: 60, AvailBytes: 60}, nil
	}

	statuses, err := checker.Check()
	assert.Nil(err, "one mount's failure must not abort the check")
	assert.Len(statuses, 2)
	assert.ErrorIs(statuses[0].Err, errTest)
	assert.Nil(statuses[1].Err)
	assert.Equal(diskmon.Ok, statuses[1].State)
}

func TestCheckMountsFailure(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	checker, err := diskmon.NewChecker(90, nil)
	assert.Nil(err)

	checker.Mounts = func() ([]diskmon.Mount, error) { return nil, errTest }

	_, err = checker.Check()
	assert.ErrorIs(err, errTest)
}

func TestWriterNotifier(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	notifier := &diskmon.WriterNotifier{Out: buf}

	err := notifier.Notify(diskmon.Status{
		Mount:       diskmon.Mount{Device: "/dev/sda1", MountPoint: "/var"},
		UsedPercent: 93,
		State:       diskmon.Warning,
	})
	assert.Nil(err)
	assert.Equal("WARNING: /var (/dev/sda1) is 93% full\n", buf.String())
}

func TestStateString(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)

	assert.Equal("ok", diskmon.Ok.String())
	assert.Equal("warning", diskmon.Warning.String())
}
