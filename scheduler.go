// Package main - scheduler.go
//
// This file implements the named periodic task scheduler that drives every
// poll loop (status refresh, farm loop, berry watcher).
//
// Execution Model:
// Each task owns a ticker goroutine, but every callback runs while holding a
// single execution lock shared by all tasks. UI-originated mutations (tray
// clicks, in-page buttons) enter through Do and take the same lock. Callbacks
// therefore never interleave, which lets components keep plain owned state
// without their own mutexes.
//
// A panicking callback loses only the tick it panicked in.
//
// Cancellation:
// Stop marks the task stopped before its goroutine is told to exit. A tick
// that was already waiting on the execution lock sees the mark and drops the
// callback, so a stopped task never runs again. Stop may be called from inside
// a callback (a loop disabling itself).
package main

import (
	"sync"
	"time"
)

// Scheduler starts and stops named periodic tasks.
type Scheduler interface {
	// Start arms fn every period under name. Starting a running task is a no-op.
	Start(name string, period time.Duration, fn func())
	// Stop cancels the task. Stopping an absent task is a no-op.
	Stop(name string)
	Running(name string) bool
	// Do runs fn on the execution context shared with task callbacks.
	Do(fn func())
}

type tickerTask struct {
	stop    chan struct{}
	stopped bool
}

// TickerScheduler is the real-time Scheduler.
type TickerScheduler struct {
	exec  sync.Mutex
	mu    sync.Mutex
	tasks map[string]*tickerTask
	wg    sync.WaitGroup
}

// NewTickerScheduler creates an empty scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{tasks: make(map[string]*tickerTask)}
}

func (s *TickerScheduler) Start(name string, period time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[name]; ok {
		return
	}

	task := &tickerTask{stop: make(chan struct{})}
	s.tasks[name] = task
	s.wg.Add(1)
	LogDebug("Scheduler: started %s every %v", name, period)

	SafeGo(func() {
		defer s.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-task.stop:
				return
			case <-ticker.C:
				s.runTick(name, task, fn)
			}
		}
	})
}

// runTick runs one callback. A panic only drops that tick; the task keeps
// its ticker and stays registered.
func (s *TickerScheduler) runTick(name string, task *tickerTask, fn func()) {
	s.exec.Lock()
	defer s.exec.Unlock()

	s.mu.Lock()
	stopped := task.stopped
	s.mu.Unlock()
	if stopped {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			LogError("Scheduler: panic in %s, skipping tick: %v", name, r)
		}
	}()
	fn()
}

func (s *TickerScheduler) Stop(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[name]
	if !ok {
		return
	}
	task.stopped = true
	close(task.stop)
	delete(s.tasks, name)
	LogDebug("Scheduler: stopped %s", name)
}

func (s *TickerScheduler) Running(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[name]
	return ok
}

func (s *TickerScheduler) Do(fn func()) {
	s.exec.Lock()
	defer s.exec.Unlock()
	fn()
}

// StopAll cancels every task and waits for their goroutines to exit.
// It must not be called from inside a callback.
func (s *TickerScheduler) StopAll() {
	s.mu.Lock()
	for name, task := range s.tasks {
		task.stopped = true
		close(task.stop)
		delete(s.tasks, name)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
