package app

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchguess/internal/domain"
)

func newTestDirectory(t *testing.T, codes CodeGenerator, words ...string) *Directory {
	t.Helper()
	if len(words) == 0 {
		words = []string{"pizza"}
	}
	d := NewDirectory(&sequenceWords{words: words}, codes, discardLogger())
	t.Cleanup(d.Close)
	return d
}

func TestDirectory_CreateRegistersDrawer(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})

	var seen *domain.Room
	code, err := d.Create("conn-a", "", func(room *domain.Room) { seen = room })
	require.NoError(t, err)

	assert.Equal(t, "7F2Q", code)
	require.NotNil(t, seen)
	assert.Equal(t, "conn-a", seen.DrawerID)
	assert.Equal(t, []string{"Drawer"}, seen.Nicknames())
	assert.Equal(t, "pizza", seen.SecretWord())
	assert.Equal(t, 1, d.GetSessionCount())
}

func TestDirectory_CreateRetriesOnCollision(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"AAAA", "AAAA", "AAAA", "BBBB"}})

	first, err := d.Create("conn-a", "A", nil)
	require.NoError(t, err)
	second, err := d.Create("conn-b", "B", nil)
	require.NoError(t, err)

	assert.Equal(t, "AAAA", first)
	assert.Equal(t, "BBBB", second)
}

func TestDirectory_CreateFailsWhenNoFreeCode(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"AAAA"}})

	_, err := d.Create("conn-a", "A", nil)
	require.NoError(t, err)

	_, err = d.Create("conn-b", "B", nil)
	assert.ErrorIs(t, err, domain.ErrCodeSpaceExhausted)
	assert.Equal(t, 1, d.GetSessionCount())
}

func TestDirectory_CodesUniqueUnderConcurrency(t *testing.T) {
	d := newTestDirectory(t, RandomCodes{Length: DefaultRoomCodeLength})

	const n = 200
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			code, err := d.Create(fmt.Sprintf("conn-%d", i), "", nil)
			assert.NoError(t, err)
			codes[i] = code
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, c := range codes {
		assert.False(t, seen[c], "duplicate code %s", c)
		seen[c] = true
	}
	assert.Equal(t, n, d.GetSessionCount())
}

func TestDirectory_JoinUnknownRoom(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})

	err := d.Join("NOPE", "conn-b", "Bob", nil)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestDirectory_JoinNormalizesCodeAndDefaultsNickname(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})
	_, err := d.Create("conn-a", "Ann", nil)
	require.NoError(t, err)

	var names []string
	err = d.Join(" 7f2q ", "conn-b", "", func(room *domain.Room) { names = room.Nicknames() })
	require.NoError(t, err)

	assert.Equal(t, []string{"Ann", "Player"}, names)
	assert.Equal(t, 2, d.GetTotalPlayerCount())
}

func TestDirectory_LastDisconnectTearsDownRoom(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})
	code, err := d.Create("conn-a", "Ann", nil)
	require.NoError(t, err)

	var sawEmpty bool
	left := d.RemoveConnection("conn-a", func(_ *domain.Room, empty bool) { sawEmpty = empty })

	assert.Equal(t, 1, left)
	assert.True(t, sawEmpty)
	_, ok := d.Get(code)
	assert.False(t, ok)
	assert.ErrorIs(t, d.WithRoom(code, func(*domain.Room) {}), domain.ErrRoomNotFound)
	assert.ErrorIs(t, d.Join(code, "conn-b", "Bob", nil), domain.ErrRoomNotFound)
}

func TestDirectory_DisconnectKeepsRoomWithPlayers(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})
	code, _ := d.Create("conn-a", "Ann", nil)
	require.NoError(t, d.Join(code, "conn-b", "Bob", nil))

	var names []string
	d.RemoveConnection("conn-b", func(room *domain.Room, empty bool) {
		assert.False(t, empty)
		names = room.Nicknames()
	})

	assert.Equal(t, []string{"Ann"}, names)
	_, ok := d.Get(code)
	assert.True(t, ok)
}

func TestDirectory_RemoveConnectionFromEveryRoom(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"AAAA", "BBBB"}})
	a, _ := d.Create("conn-a", "Ann", nil)
	b, _ := d.Create("conn-b", "Bob", nil)
	require.NoError(t, d.Join(b, "conn-a", "Ann", nil))

	left := d.RemoveConnection("conn-a", nil)

	assert.Equal(t, 2, left)
	_, ok := d.Get(a)
	assert.False(t, ok)
	session, ok := d.Get(b)
	require.True(t, ok)
	assert.Equal(t, 1, session.GetPlayerCount())
}

func TestDirectory_Leave(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}})
	code, _ := d.Create("conn-a", "Ann", nil)

	assert.ErrorIs(t, d.Leave(code, "conn-x", nil), domain.ErrPlayerNotFound)
	assert.ErrorIs(t, d.Leave("NOPE", "conn-a", nil), domain.ErrRoomNotFound)

	require.NoError(t, d.Leave(code, "conn-a", nil))
	_, ok := d.Get(code)
	assert.False(t, ok)
}

// A join racing the last leave must either land in the live room or be
// refused; it must never be accepted into a room that is then deleted.
func TestDirectory_JoinRacingTeardownNeverLost(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := NewDirectory(&sequenceWords{words: []string{"pizza"}}, &fixedCodes{codes: []string{"7F2Q"}}, discardLogger())
		code, err := d.Create("conn-a", "Ann", nil)
		require.NoError(t, err)

		var joinErr error
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			d.RemoveConnection("conn-a", nil)
		}()
		go func() {
			defer wg.Done()
			joinErr = d.Join(code, "conn-b", "Bob", nil)
		}()
		wg.Wait()

		session, live := d.Get(code)
		if joinErr == nil {
			require.True(t, live, "joined player lost with deleted room")
			assert.Equal(t, 1, session.GetPlayerCount())
		} else {
			assert.ErrorIs(t, joinErr, domain.ErrRoomNotFound)
			assert.False(t, live)
		}
		d.Close()
	}
}

func TestDirectory_ConcurrentGuessesSeeRotatedWord(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"7F2Q"}}, "cat", "dog")
	code, _ := d.Create("conn-a", "Ann", nil)

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		correct int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = d.WithRoom(code, func(room *domain.Room) {
				if room.SubmitGuess("Bob", "cat").Correct {
					mu.Lock()
					correct++
					mu.Unlock()
				}
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, correct)
}

func TestDirectory_Sweep(t *testing.T) {
	d := newTestDirectory(t, &fixedCodes{codes: []string{"AAAA", "BBBB"}})
	a, _ := d.Create("conn-a", "Ann", nil)
	b, _ := d.Create("conn-b", "Bob", nil)

	session, _ := d.Get(a)
	session.Close()

	assert.Equal(t, 1, d.sweep())
	_, ok := d.Get(a)
	assert.False(t, ok)
	_, ok = d.Get(b)
	assert.True(t, ok)
}
