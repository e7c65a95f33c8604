package letters_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/arthur-debert/windeploy/pkg/errors"
	"github.com/arthur-debert/windeploy/pkg/letters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	set := letters.Default()
	assert.Equal(t, byte('S'), set.System)
	assert.Equal(t, byte('W'), set.Windows)
	assert.Equal(t, "S:", set.SystemRoot())
	assert.Equal(t, "W:", set.WindowsRoot())
	assert.Equal(t, "S/W", set.String())
}

func TestParse(t *testing.T) {
	set, err := letters.Parse("r", "T:")
	require.NoError(t, err)
	assert.Equal(t, letters.Set{System: 'R', Windows: 'T'}, set)

	for _, pair := range [][2]string{{"S", "s"}, {"", "W"}, {"SS", "W"}, {"S", "1"}} {
		_, err := letters.Parse(pair[0], pair[1])
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), "%v", pair)
	}
}

func TestFixed(t *testing.T) {
	set, err := letters.Fixed(letters.Default()).Allocate()
	require.NoError(t, err)
	assert.Equal(t, letters.Default(), set)
}

func TestDynamic(t *testing.T) {
	used := map[byte]bool{'Z': true, 'X': true}
	d := letters.Dynamic{Probe: func(c byte) bool { return used[c] }}

	set, err := d.Allocate()
	require.NoError(t, err)
	assert.Equal(t, letters.Set{System: 'W', Windows: 'Y'}, set)
}

func TestDynamic_Exhausted(t *testing.T) {
	var probed []byte
	d := letters.Dynamic{Probe: func(c byte) bool {
		probed = append(probed, c)
		return c != 'E'
	}}

	_, err := d.Allocate()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrecondition))
	assert.NotContains(t, probed, byte('C'), "C is never handed out")
	assert.Equal(t, byte('D'), probed[len(probed)-1])
}

func TestLock(t *testing.T) {
	lock := letters.NewLock()

	release, err := lock.TryAcquire()
	require.NoError(t, err)

	_, err = lock.TryAcquire()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrecondition))
	assert.Equal(t, letters.MsgBusy, errors.GetMessage(err))

	release()
	release()

	again, err := lock.TryAcquire()
	require.NoError(t, err, "released slot can be taken again")
	again()
}

func TestLock_Concurrent(t *testing.T) {
	lock := letters.NewLock()

	var winners int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := lock.TryAcquire(); err == nil {
				atomic.AddInt32(&winners, 1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), winners)
}

func TestProcess(t *testing.T) {
	assert.Same(t, letters.Process(), letters.Process())
}
