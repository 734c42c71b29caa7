package session

import "time"

// countdown drives Tick at a fixed cadence. It is owned by the controller:
// started when the session enters Active, stopped on every path out of it.
type countdown struct {
	stop chan struct{}
	done chan struct{}
}

func newCountdown(interval time.Duration, tick func()) *countdown {
	cd := &countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(cd.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
	return cd
}

func (cd *countdown) Stop() {
	select {
	case <-cd.stop:
	default:
		close(cd.stop)
	}
}

// startCountdownLocked arms the timer. Caller holds c.mu.
func (c *Controller) startCountdownLocked() {
	if c.tickInterval <= 0 || c.countdown != nil {
		return
	}
	c.countdown = newCountdown(c.tickInterval, c.Tick)
}

// stopCountdownLocked releases the timer. Caller holds c.mu. Safe to call
// when no timer is armed.
func (c *Controller) stopCountdownLocked() {
	if c.countdown == nil {
		return
	}
	c.countdown.Stop()
	c.countdown = nil
}
