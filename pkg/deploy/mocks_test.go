package deploy_test

import (
	"context"

	"github.com/arthur-debert/windeploy/pkg/executor"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/stretchr/testify/mock"
)

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, ref types.SourceReference) (source.Resolution, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(source.Resolution), args.Error(1)
}

func (m *MockResolver) Unmount(ctx context.Context, handle *types.MountHandle) {
	m.Called(ctx, handle)
}

type MockPartitioner struct {
	mock.Mock
}

func (m *MockPartitioner) Prepare(ctx context.Context, disk int, scheme types.Scheme, set letters.Set) executor.Result {
	args := m.Called(ctx, disk, scheme, set)
	return args.Get(0).(executor.Result)
}

func (m *MockPartitioner) Cleanup(ctx context.Context, disk int, scheme types.Scheme, set letters.Set) {
	m.Called(ctx, disk, scheme, set)
}

type MockApplier struct {
	mock.Mock
}

func (m *MockApplier) Apply(ctx context.Context, imagePath string, index int, targetRoot string) executor.Result {
	args := m.Called(ctx, imagePath, index, targetRoot)
	return args.Get(0).(executor.Result)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) List(ctx context.Context, imagePath string) ([]types.ImageEntry, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ImageEntry), args.Error(1)
}

type MockBoot struct {
	mock.Mock
}

func (m *MockBoot) Configure(ctx context.Context, windowsRoot string, scheme types.Scheme, set letters.Set) executor.Result {
	args := m.Called(ctx, windowsRoot, scheme, set)
	return args.Get(0).(executor.Result)
}
