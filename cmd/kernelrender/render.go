package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-patch/dsp/core"
	"github.com/cwbudde/algo-patch/dsp/kernel"
)

// scheduledMessage is a control message posted once rendering reaches frame.
type scheduledMessage struct {
	frame int
	msg   kernel.Message
}

type job struct {
	kind     kernel.Kind
	cfg      kernel.Config
	params   kernel.Params
	schedule []scheduledMessage
	logger   *log.Logger
}

type result struct {
	kind     kernel.Kind
	output   [][]float64
	statuses []kernel.Status
	dropped  uint64
}

// render drives a kernel node over input in fixed quanta. The audio loop
// and the control loop run on separate goroutines in lockstep: before each
// quantum the control side posts due messages and drains statuses.
func render(ctx context.Context, j job, input [][]float64) (result, error) {
	quantum := j.cfg.BlockSize
	if quantum <= 0 {
		quantum = core.RenderQuantum
	}

	channels := len(input)
	if channels == 0 {
		return result{}, fmt.Errorf("render %s: no input channels", j.kind)
	}
	frames := len(input[0])

	cfg := j.cfg
	cfg.MaxChannels = max(cfg.MaxChannels, channels)

	node, err := kernel.NewNode(j.kind, cfg, kernel.WithLogger(j.logger), kernel.WithQueueCapacity(256))
	if err != nil {
		return result{}, fmt.Errorf("render %s: %w", j.kind, err)
	}

	res := result{kind: j.kind, output: core.Planes(channels, frames)}
	collect := func(st kernel.Status) { res.statuses = append(res.statuses, st) }

	ticks := make(chan int)
	acks := make(chan struct{})
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		next := 0
		for frame := range ticks {
			for next < len(j.schedule) && j.schedule[next].frame <= frame {
				if err := node.Post(j.schedule[next].msg); err != nil {
					return fmt.Errorf("render %s: post at frame %d: %w", j.kind, frame, err)
				}
				next++
			}
			node.Drain(collect)

			select {
			case acks <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		node.Drain(collect)
		return nil
	})

	g.Go(func() error {
		defer close(ticks)

		in := core.Planes(channels, quantum)
		q := &kernel.Quantum{
			Inputs:  in,
			Outputs: core.Planes(channels, quantum),
			Params:  j.params,
		}

		for start := 0; start < frames; start += quantum {
			select {
			case ticks <- start:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case <-acks:
			case <-ctx.Done():
				return ctx.Err()
			}

			n := min(quantum, frames-start)
			for ch := range in {
				core.Zero(in[ch])
				copy(in[ch], input[ch][start:start+n])
			}

			node.Render(q)

			for ch := range res.output {
				copy(res.output[ch][start:start+n], q.Outputs[ch][:n])
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return result{}, err
	}

	res.dropped = node.DroppedStatuses()

	return res, nil
}

// renderAll renders every job concurrently on its own node.
func renderAll(ctx context.Context, jobs []job, input [][]float64) ([]result, error) {
	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)

	for i, j := range jobs {
		g.Go(func() error {
			res, err := render(ctx, j, input)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
