//go:build unit

package packages

import (
	"context"
	"errors"
	"testing"

	"orangebox-setup/internal/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestBootstrapStep(t *testing.T) {
	ctx := context.Background()

	t.Run("InstallsStagedDebs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fileMgr := mock.NewMockFileManager(ctrl)
		runner := mock.NewMockCommandRunner(ctrl)

		fileMgr.EXPECT().Glob("./*.deb").Return([]string{"./bridge-utils.deb", "./ifupdown.deb"}, nil)
		runner.EXPECT().Run(gomock.Any(), "dpkg", "-i", "./bridge-utils.deb", "./ifupdown.deb").Return(nil)

		step := NewBootstrapStep("./*.deb", fileMgr, runner)
		assert.Equal(t, "dpkg-bootstrap", step.Name())
		require.NoError(t, step.Run(ctx))
	})

	t.Run("NothingStagedIsNoOp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fileMgr := mock.NewMockFileManager(ctrl)
		runner := mock.NewMockCommandRunner(ctrl)

		fileMgr.EXPECT().Glob("./*.deb").Return(nil, nil)

		step := NewBootstrapStep("./*.deb", fileMgr, runner)
		require.NoError(t, step.Run(ctx))
	})

	t.Run("DpkgFailurePropagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		fileMgr := mock.NewMockFileManager(ctrl)
		runner := mock.NewMockCommandRunner(ctrl)

		fileMgr.EXPECT().Glob("./*.deb").Return([]string{"./broken.deb"}, nil)
		runner.EXPECT().Run(gomock.Any(), "dpkg", "-i", "./broken.deb").Return(errors.New("dpkg: error"))

		step := NewBootstrapStep("./*.deb", fileMgr, runner)
		assert.Error(t, step.Run(ctx))
	})
}

func TestAptStep(t *testing.T) {
	ctx := context.Background()

	t.Run("EnablesUniverseAndInstalls", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runner := mock.NewMockCommandRunner(ctrl)
		gomock.InOrder(
			runner.EXPECT().Run(gomock.Any(), "add-apt-repository", "-y", "universe").Return(nil),
			runner.EXPECT().Run(gomock.Any(), "apt", "update").Return(nil),
			runner.EXPECT().Run(gomock.Any(), "apt", "install", "-y", "vim", "curl").Return(nil),
		)

		step := NewAptStep([]string{"vim", "curl"}, runner)
		assert.Equal(t, "apt", step.Name())
		require.NoError(t, step.Run(ctx))
	})

	t.Run("NoConvenniencePackages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		runner := mock.NewMockCommandRunner(ctrl)
		gomock.InOrder(
			runner.EXPECT().Run(gomock.Any(), "add-apt-repository", "-y", "universe").Return(nil),
			runner.EXPECT().Run(gomock.Any(), "apt", "update").Return(nil),
		)

		step := NewAptStep(nil, runner)
		require.NoError(t, step.Run(ctx))
	})
}
