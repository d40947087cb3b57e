package goroutine

import (
	"context"

	"github.com/x-xyz/nftauction/base/backoff"
	"github.com/x-xyz/nftauction/base/log"
	"github.com/x-xyz/nftauction/base/utils"
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

type RecoverableGoOptions struct {
	beforeStart    func()
	afterEnded     func()
	afterRecovered func(panic interface{}, stack []byte)
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

func WithBeforeStart(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.beforeStart = f
		return nil
	}
}

func WithAfterEnded(f func()) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterEnded = f
		return nil
	}
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = f
		return nil
	}
}

// RecoverableGo runs f in a goroutine. The returned channel receives the
// panic if f panics, or is closed when f returns normally.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) chan *PanicEvent {
	opts := getRecoverableGoOptions(fns...)

	panicChan := make(chan *PanicEvent, 1)

	go func() {
		defer func() {
			if opts.afterEnded != nil {
				opts.afterEnded()
			}

			if p := recover(); p != nil {
				stack := utils.Stack(3)

				log.Log().WithFields(log.Fields{
					"err":   p,
					"stack": string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					opts.afterRecovered(p, stack)
				}

				panicChan <- &PanicEvent{p, stack}
			} else {
				close(panicChan)
			}
		}()

		if opts.beforeStart != nil {
			opts.beforeStart()
		}

		f()
	}()

	return panicChan
}

// Supervise keeps f running until ctx is done. A panicking f is restarted
// after waiting on b; a clean return resets b and ends supervision.
func Supervise(ctx context.Context, b *backoff.Backoff, f func(), fns ...RecoverableGoOptionsFunc) {
	for {
		evt, panicked := <-RecoverableGo(f, fns...)
		if !panicked {
			b.Reset()
			return
		}
		log.Log().WithFields(log.Fields{
			"panic":   evt.Panic,
			"backoff": b.NextDuration,
		}).Warn("restarting after panic")
		if err := b.Backoff(ctx); err != nil {
			return
		}
	}
}
