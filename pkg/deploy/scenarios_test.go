package deploy_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/windeploy/pkg/bcdboot"
	"github.com/arthur-debert/windeploy/pkg/deploy"
	"github.com/arthur-debert/windeploy/pkg/diskpart"
	"github.com/arthur-debert/windeploy/pkg/dism"
	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/filesystem"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/arthur-debert/windeploy/pkg/source"
	"github.com/arthur-debert/windeploy/pkg/testutil"
	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wimPath    = `D:\images\install.wim`
	isoPath    = `D:\images\Win11_24H2.iso`
	mountedWIM = `E:\sources\install.wim`
	scratchDir = "/scratch"
)

var editions = []types.ImageEntry{
	{Index: 1, Name: "Windows 11 Home", Description: "Windows 11 Home", Size: 18000000000},
	{Index: 6, Name: "Windows 11 Pro", Description: "Windows 11 Pro", Size: 18500000000},
}

// stack wires the real components to a fake runner and an in-memory
// filesystem
type stack struct {
	runner *testutil.FakeRunner
	fs     afero.Fs
	orch   *deploy.Orchestrator
}

func newStack(t *testing.T) *stack {
	t.Helper()
	runner := testutil.NewFakeRunner()
	fs := filesystem.NewMemory()

	orch := deploy.New(deploy.Options{
		Resolver: source.New(source.Options{Runner: runner, FS: fs, Logger: zerolog.Nop()}),
		Partitioner: diskpart.New(diskpart.Options{
			Runner:     runner,
			FS:         fs,
			ScratchDir: scratchDir,
			Logger:     zerolog.Nop(),
		}),
		Applier:         dism.New(dism.Options{Runner: runner}),
		Lister:          dism.New(dism.Options{Runner: runner}),
		Boot:            bcdboot.New(runner, "", 0),
		FS:              fs,
		Lock:            letters.NewLock(),
		RevalidateIndex: true,
	})
	return &stack{runner: runner, fs: fs, orch: orch}
}

func (s *stack) writeWIM(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(s.fs, path, testutil.BuildWIM(editions...), 0644))
}

func request(ref types.SourceReference, index, disk int, scheme types.Scheme) types.DeploymentRequest {
	return types.DeploymentRequest{
		Source:     ref,
		Index:      index,
		DiskNumber: disk,
		Scheme:     scheme,
		Confirmed:  true,
	}
}

func TestRun_ImageFileGPT(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, wimPath)

	var script string
	s.runner.OnHook("diskpart.exe", "/s", testutil.OK("Volume 3  W  Windows  NTFS"), func(c testutil.Call) {
		if script == "" {
			data, err := afero.ReadFile(s.fs, c.Args[1])
			require.NoError(t, err)
			script = string(data)
		}
	})

	var states []types.State
	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: wimPath, Kind: types.ImageFile}, 6, 1, types.GPT), func(e types.Event) {
		states = append(states, e.State)
	})

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, deploy.MsgSuccess, outcome.Message)

	assert.Contains(t, script, "select disk 1\r\nclean\r\nconvert gpt\r\n")
	assert.Contains(t, script, "assign letter=S\r\n")

	diskpartCalls := s.runner.CallsTo("diskpart.exe")
	assert.Len(t, diskpartCalls, 2, "prepare and cleanup")

	dismCalls := s.runner.CallsTo("dism.exe")
	require.Len(t, dismCalls, 1)
	assert.Equal(t, []string{"/Apply-Image", "/ImageFile:" + wimPath, "/Index:6", "/ApplyDir:W:", "/Quiet"}, dismCalls[0].Args)

	bootCalls := s.runner.CallsTo("bcdboot.exe")
	require.Len(t, bootCalls, 1)
	assert.Equal(t, "bcdboot.exe W:\\Windows /s S: /f UEFI", bootCalls[0].Line())

	assert.Empty(t, s.runner.CallsTo("powershell.exe"), "image files are never mounted")
	assert.NotContains(t, states, types.Unmounting)
	assert.Equal(t, types.Done, states[len(states)-1])

	// script files are removed after each run
	left, err := afero.ReadDir(s.fs, scratchDir)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRun_ImageFileMBR(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, wimPath)

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: wimPath, Kind: types.ImageFile}, 1, 2, types.MBR), nil)

	assert.True(t, outcome.Succeeded)
	bootCalls := s.runner.CallsTo("bcdboot.exe")
	require.Len(t, bootCalls, 1)
	assert.Equal(t, []string{`W:\Windows`, "/s", "W:", "/f", "BIOS"}, bootCalls[0].Args)
}

func TestRun_DiscImageWithoutInstallWIM(t *testing.T) {
	s := newStack(t)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E\r\n"))

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 6, 1, types.GPT), nil)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, `install.wim not found in E:\sources`, outcome.Message)
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
	assert.Empty(t, s.runner.CallsTo("diskpart.exe"))
	assert.Empty(t, s.runner.CallsTo("dism.exe"))
}

func TestRun_DiscImageDiskPartFails(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E\r\n"))
	s.runner.On("diskpart.exe", "", testutil.Fail(1, "Microsoft DiskPart version 10.0", "Virtual Disk Service error:\r\nThe device is not ready."))

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 6, 1, types.GPT), nil)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "DiskPart failed: Virtual Disk Service error:\r\nThe device is not ready.", outcome.Message)
	assert.Len(t, s.runner.CallsTo("diskpart.exe"), 1, "letters are not cleaned up after a failed prepare")
	assert.Empty(t, s.runner.CallsTo("dism.exe"))
	assert.Empty(t, s.runner.CallsTo("bcdboot.exe"))
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestRun_DiscImageSucceeds(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E\r\n"))

	req := request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 1, 0, types.GPT)
	req.ImagePath = `F:\sources\install.wim`
	outcome := s.orch.Run(context.Background(), req, nil)

	require.True(t, outcome.Succeeded, outcome.Message)
	dismCalls := s.runner.CallsTo("dism.exe")
	require.Len(t, dismCalls, 1)
	assert.Contains(t, dismCalls[0].Args, "/ImageFile:"+mountedWIM, "the freshly resolved path wins")
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestRun_MountFails(t *testing.T) {
	s := newStack(t)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.Fail(1, "", "The file is not a valid disc image."))

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 1, 0, types.GPT), nil)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "ISO mount failed: The file is not a valid disc image.", outcome.Message)
	assert.Empty(t, s.runner.CallsTo("diskpart.exe"))
}

func TestRun_ApplyFailsStillCleansUp(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E\r\n"))
	s.runner.On("dism.exe", "/Apply-Image", testutil.Fail(2, "Error: 2\r\n\r\nThe system cannot find the file specified.", ""))

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 6, 1, types.GPT), nil)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, "DISM apply failed: Error: 2\r\n\r\nThe system cannot find the file specified.", outcome.Message)
	assert.Len(t, s.runner.CallsTo("diskpart.exe"), 2)
	assert.Empty(t, s.runner.CallsTo("bcdboot.exe"))
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestRun_MissingEdition(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, wimPath)

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: wimPath, Kind: types.ImageFile}, 4, 1, types.GPT), nil)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, `Edition index 4 not found in D:\images\install.wim`, outcome.Message)
	assert.Empty(t, s.runner.Calls(), "nothing runs before the edition is confirmed")
}

func TestRun_EditionsFromDISMWhenHeaderUnreadable(t *testing.T) {
	s := newStack(t)
	require.NoError(t, afero.WriteFile(s.fs, wimPath, []byte("not a wim"), 0644))
	s.runner.On("dism.exe", "/Get-WimInfo", testutil.OK(testutil.DISMListing(wimPath, editions...)))

	outcome := s.orch.Run(context.Background(), request(types.SourceReference{Path: wimPath, Kind: types.ImageFile}, 6, 1, types.GPT), nil)

	require.True(t, outcome.Succeeded, outcome.Message)
	assert.Equal(t, 1, s.runner.CountContaining("/Get-WimInfo"))
}

func TestListImages(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E"))
	s.runner.On("dism.exe", "/Get-WimInfo", testutil.OK(testutil.DISMListing(mountedWIM,
		types.ImageEntry{Index: 1, Name: "Windows 11 Home"},
		types.ImageEntry{Index: 6, Name: "Windows 11 Pro"},
	)))

	result := <-s.orch.ReadImages(context.Background(), isoPath)

	require.True(t, result.OK, result.Message)
	assert.Equal(t, "WIM info read successfully", result.Message)
	assert.Equal(t, mountedWIM, result.ImagePath)
	assert.Equal(t, editions, result.Entries, "descriptions and sizes come from the image metadata")
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestListImages_ChannelClosesAfterOneResult(t *testing.T) {
	s := newStack(t)
	ch := s.orch.ReadImages(context.Background(), `D:\images\win.vhdx`)

	result, ok := <-ch
	require.True(t, ok)
	assert.False(t, result.OK)
	assert.Equal(t, "Unsupported source type", result.Message)

	_, ok = <-ch
	assert.False(t, ok)
}

func TestListImages_DISMFailureUnmounts(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E"))
	s.runner.On("dism.exe", "/Get-WimInfo", testutil.Fail(87, "Error: 87\r\n\r\nThe parameter is incorrect.", ""))

	result := s.orch.ListImages(context.Background(), isoPath)

	assert.False(t, result.OK)
	assert.Equal(t, "Error: 87\r\n\r\nThe parameter is incorrect.", result.Message)
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestListImages_NoEditions(t *testing.T) {
	s := newStack(t)
	s.runner.On("dism.exe", "/Get-WimInfo", testutil.OK(testutil.DISMListing(wimPath)))

	result := s.orch.ListImages(context.Background(), wimPath)

	assert.False(t, result.OK)
	assert.Equal(t, "No images found in WIM", result.Message)
	assert.Equal(t, errors.ErrParse, result.Code)
	assert.True(t, errors.IsErrorCode(result.Err(), errors.ErrParse))
}

func TestPlan(t *testing.T) {
	s := newStack(t)
	s.writeWIM(t, mountedWIM)
	s.runner.On("powershell.exe", "Mount-DiskImage", testutil.OK("E"))

	req := request(types.SourceReference{Path: isoPath, Kind: types.DiscImage}, 6, 1, types.GPT)
	req.Confirmed = false
	plan, err := s.orch.Plan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, mountedWIM, plan.ImagePath)
	assert.Equal(t, "Windows 11 Pro", plan.Edition.Name)
	assert.Equal(t, letters.Default(), plan.Letters)
	require.NotNil(t, plan.Inspection)

	var states []types.State
	for _, step := range plan.Steps {
		states = append(states, step.State)
	}
	assert.Equal(t, []types.State{
		types.ResolvingSource,
		types.Preparing,
		types.Applying,
		types.ConfiguringBoot,
		types.CleaningUp,
		types.Unmounting,
	}, states)
	assert.Equal(t, `dism.exe /Apply-Image /ImageFile:E:\sources\install.wim /Index:6 /ApplyDir:W: /Quiet`, plan.Steps[2].Command)
	assert.Equal(t, `bcdboot.exe W:\Windows /s S: /f UEFI`, plan.Steps[3].Command)
	assert.Contains(t, plan.Steps[1].Script, "convert gpt")

	md := plan.Markdown()
	assert.Contains(t, md, "# Deployment plan")
	assert.Contains(t, md, "| Edition | 6: Windows 11 Pro |")
	assert.Contains(t, md, "Every partition on disk 1 will be erased.")

	assert.Empty(t, s.runner.CallsTo("diskpart.exe"), "planning never touches the disk")
	assert.Equal(t, 1, s.runner.CountContaining("Dismount-DiskImage"))
}

func TestPlan_InvalidRequest(t *testing.T) {
	s := newStack(t)

	_, err := s.orch.Plan(context.Background(), request(types.SourceReference{Path: wimPath, Kind: types.ImageFile}, 0, 1, types.GPT))

	require.Error(t, err)
	assert.Empty(t, s.runner.Calls())
}
