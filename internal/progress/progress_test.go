package progress

import (
	"sync"
	"testing"
)

func TestManagerLifecycle(t *testing.T) {
	t.Run("quiet manager is inert", func(t *testing.T) {
		pm := NewManager(Options{Quiet: true})
		pm.StartStage(10, "testing")
		if pm.bar != nil {
			t.Error("quiet manager created a bar")
		}
		pm.Tick()
		pm.FinishStage()
		pm.PrintInfo("suppressed %d", 1)
	})

	t.Run("tick before start is harmless", func(t *testing.T) {
		pm := NewManager(Options{})
		pm.Tick()
		pm.FinishStage()
	})

	t.Run("full stage", func(t *testing.T) {
		pm := NewManager(Options{})
		pm.StartStage(3, "testing")
		if pm.bar == nil {
			t.Fatal("StartStage did not create a bar")
		}
		for i := 0; i < 3; i++ {
			pm.Tick()
		}
		pm.FinishStage()
	})

	t.Run("finish completes an underfilled bar", func(t *testing.T) {
		pm := NewManager(Options{})
		pm.StartStage(4, "testing")
		pm.Tick()
		bar := pm.bar
		pm.FinishStage()
		if pct := bar.State().CurrentPercent; pct != 1 {
			t.Errorf("CurrentPercent = %v after FinishStage, want 1", pct)
		}
	})

	t.Run("concurrent ticks", func(t *testing.T) {
		pm := NewManager(Options{})
		pm.StartStage(100, "testing")

		var wg sync.WaitGroup
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 25; i++ {
					pm.Tick()
				}
			}()
		}
		wg.Wait()
		pm.FinishStage()
	})
}

func TestVerbosePrinting(t *testing.T) {
	t.Run("verbose disabled", func(t *testing.T) {
		pm := NewManager(Options{})
		pm.PrintVerbose("should not print %s", "anything")
	})

	t.Run("verbose enabled", func(t *testing.T) {
		pm := NewManager(Options{Verbose: true, Quiet: true})
		pm.PrintVerbose("detail without newline")
		pm.PrintVerbose("detail with newline\n")
	})
}
