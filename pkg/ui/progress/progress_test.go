package progress_test

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/windeploy/pkg/types"
	"github.com/arthur-debert/windeploy/pkg/ui/progress"
	"github.com/stretchr/testify/assert"
)

func feed(events ...types.Event) <-chan types.Event {
	ch := make(chan types.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

func TestFollow_Plain(t *testing.T) {
	var buf bytes.Buffer
	r := progress.New(&buf, progress.Options{})

	r.Follow(feed(
		types.Event{State: types.ResolvingSource, Message: "Resolving image source..."},
		types.Event{State: types.Preparing, Message: "Preparing disk with DiskPart..."},
		types.Event{State: types.Done, Message: "Deployment completed successfully."},
	))

	assert.Equal(t,
		"[ResolvingSource] Resolving image source...\n[Preparing] Preparing disk with DiskPart...\n",
		buf.String())
}

func TestFollow_Detail(t *testing.T) {
	var buf bytes.Buffer
	r := progress.New(&buf, progress.Options{ShowDetail: true})

	r.Follow(feed(types.Event{
		State:   types.Preparing,
		Message: "Disk 1 partitioned (GPT)",
		Detail:  "  Volume 3     W   Windows      NTFS\r\n",
	}))

	out := buf.String()
	assert.Contains(t, out, "[Preparing] Disk 1 partitioned (GPT)\n")
	assert.Contains(t, out, "Volume 3     W   Windows      NTFS")
	assert.NotContains(t, out, "\r")
}

func TestFollow_DetailHiddenByDefault(t *testing.T) {
	var buf bytes.Buffer
	r := progress.New(&buf, progress.Options{})

	r.Follow(feed(types.Event{State: types.Preparing, Message: "done", Detail: "raw"}))

	assert.NotContains(t, buf.String(), "raw")
}
