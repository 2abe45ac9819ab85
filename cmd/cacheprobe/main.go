// SPDX-License-Identifier: EPL-2.0

// Command cacheprobe loads audio files through a sample cache and reports
// what became resident.
//
//	cacheprobe [flags] file...
//
// Settings are read from a .env file and the environment, flags win:
//
//	SAMPLECACHE_MEMORY_BUDGET   block table size in bytes
//	SAMPLECACHE_MAX_STREAMS     stream registry capacity
//	SAMPLECACHE_QUEUE_SIZE      pending block requests
//	SAMPLECACHE_PREFETCH_BLOCKS blocks to load from the start of each file
//
// With -export the first file is played back out of the cache, mixed down to
// mono and optionally resampled, and written as a 16-bit WAV.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ik5/samplecache"
	"github.com/ik5/samplecache/audio"
	"github.com/ik5/samplecache/block"
	"github.com/ik5/samplecache/formats/wav"
	"github.com/ik5/samplecache/stream"
	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"
	"github.com/ossrs/go-oryx-lib/logger"
)

type config struct {
	envFile    string
	budget     int64
	streams    int
	queue      int
	blocks     int
	frames     int
	timeout    time.Duration
	export     string
	exportRate int
	files      []string
}

func main() {
	ctx := logger.WithContext(context.Background())

	if err := doMain(ctx); err != nil {
		logger.Ef(ctx, "run err %+v", err)
		os.Exit(1)
	}

	logger.Tf(ctx, "run ok")
}

func doMain(ctx context.Context) error {
	conf, err := parseConfig(os.Args[1:])
	if err != nil {
		return errors.Wrapf(err, "parse config")
	}
	if len(conf.files) == 0 {
		return errors.New("no input files, usage: cacheprobe [flags] file...")
	}

	logger.Tf(ctx, "load config budget=%vB, streams=%v, queue=%v, blocks=%v, files=%v",
		conf.budget, conf.streams, conf.queue, conf.blocks, len(conf.files))

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for s := range sc {
			logger.Tf(ctx, "Got signal %v", s)
			cancel()
		}
	}()

	m, err := samplecache.New(samplecache.Options{
		MemoryBudget: conf.budget,
		MaxStreams:   conf.streams,
		QueueSize:    conf.queue,
	})
	if err != nil {
		return errors.Wrapf(err, "create cache")
	}
	defer m.Close()

	if err := m.Start(ctx); err != nil {
		return errors.Wrapf(err, "start worker")
	}

	var ids []stream.ID
	for _, file := range conf.files {
		id, err := m.RegisterOrGet(file)
		if err != nil {
			return errors.Wrapf(err, "register %v", file)
		}
		ids = append(ids, id)
	}

	for _, id := range ids {
		md, _ := m.Metadata(id)
		for b := range min(uint64(conf.blocks), md.Blocks(block.FramesPerBlock)) {
			// One request per block range brings in every channel
			m.Prefetch(id, b*block.FramesPerBlock, 0)
		}
	}

	if err := waitResident(ctx, m, ids, conf); err != nil {
		logger.Wf(ctx, "wait resident err %+v", err)
	}

	for _, id := range ids {
		report(m, id, conf)
	}

	s := m.Stats()
	fmt.Printf("slots=%d footprint=%dB posted=%d dropped=%d decoded=%d failures=%d hits=%d misses=%d\n",
		m.Slots(), m.Footprint(), s.Posted, s.Dropped, s.Decoded, s.DecodeFailures, s.Hits, s.Misses)

	if conf.export != "" {
		if err := export(m, ids[0], conf); err != nil {
			return errors.Wrapf(err, "export %v", conf.export)
		}
		logger.Tf(ctx, "export %v ok", conf.export)
	}

	return nil
}

func parseConfig(args []string) (*config, error) {
	// First pass only to find the .env file, the environment feeds the
	// defaults of the second.
	var first config
	pre := newFlagSet(&first, defaults())
	pre.SetOutput(io.Discard)
	_ = pre.Parse(args)

	if _, err := os.Stat(first.envFile); err == nil {
		if err := godotenv.Load(first.envFile); err != nil {
			return nil, errors.Wrapf(err, "load %v", first.envFile)
		}
	}

	def := defaults()
	for key, dst := range map[string]*int64{
		"SAMPLECACHE_MEMORY_BUDGET":   &def.budget,
		"SAMPLECACHE_MAX_STREAMS":     &def.streams,
		"SAMPLECACHE_QUEUE_SIZE":      &def.queue,
		"SAMPLECACHE_PREFETCH_BLOCKS": &def.blocks,
	} {
		v, err := envInt(key, *dst)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	conf := &config{}
	fs := newFlagSet(conf, def)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	conf.files = fs.Args()

	return conf, nil
}

type flagDefaults struct {
	budget, streams, queue, blocks int64
}

func defaults() flagDefaults {
	return flagDefaults{
		budget:  samplecache.DefaultMemoryBudget,
		streams: samplecache.DefaultMaxStreams,
		queue:   samplecache.DefaultQueueSize,
		blocks:  16,
	}
}

func newFlagSet(conf *config, def flagDefaults) *flag.FlagSet {
	fs := flag.NewFlagSet("cacheprobe", flag.ContinueOnError)
	fs.StringVar(&conf.envFile, "env", ".env", "Load settings from this file when it exists")
	fs.Int64Var(&conf.budget, "budget", def.budget, "Block table size in bytes")
	fs.IntVar(&conf.streams, "streams", int(def.streams), "Maximum number of registered files")
	fs.IntVar(&conf.queue, "queue", int(def.queue), "Pending block requests")
	fs.IntVar(&conf.blocks, "blocks", int(def.blocks), "Blocks to prefetch from the start of each file")
	fs.IntVar(&conf.frames, "frames", 4, "Frames to print per file")
	fs.DurationVar(&conf.timeout, "timeout", 10*time.Second, "How long to wait for prefetched blocks")
	fs.StringVar(&conf.export, "export", "", "Write a mono mixdown of the first file's prefetched blocks to this 16-bit WAV")
	fs.IntVar(&conf.exportRate, "export-rate", 0, "Resample the export to this rate in Hz, 0 keeps the file rate")
	return fs
}

func envInt(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %v=%v", key, v)
	}

	return n, nil
}

// prefetched is the number of frames cacheprobe asked for in md.
func prefetched(md stream.Metadata, conf *config) uint64 {
	return min(md.Frames, uint64(conf.blocks)*block.FramesPerBlock)
}

func waitResident(ctx context.Context, m *samplecache.Manager, ids []stream.ID, conf *config) error {
	ctx, cancel := context.WithTimeout(ctx, conf.timeout)
	defer cancel()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		if allResident(m, ids, conf) {
			return nil
		}

		select {
		case <-ctx.Done():
			return errors.Wrapf(ctx.Err(), "%v blocks decoded", m.Stats().Decoded)
		case <-ticker.C:
		}
	}
}

// allResident re-requests whatever is missing, so blocks dropped by a full
// queue are retried on the next tick.
func allResident(m *samplecache.Manager, ids []stream.ID, conf *config) bool {
	done := true
	for _, id := range ids {
		md, _ := m.Metadata(id)
		for f := uint64(0); f < prefetched(md, conf); f += block.FramesPerBlock {
			for c := range int(md.Channels) {
				if !m.Resident(id, f, c) {
					m.Prefetch(id, f, c)
					done = false
				}
			}
		}
	}

	return done
}

func report(m *samplecache.Manager, id stream.ID, conf *config) {
	md, _ := m.Metadata(id)

	seconds := float64(md.Frames) / float64(md.SampleRate)
	fmt.Printf("%v %s: %d Hz, %d ch, %d frames (%.2fs)\n",
		id, md.Path, md.SampleRate, md.Channels, md.Frames, seconds)

	for f := range min(uint64(conf.frames), md.Frames) {
		fmt.Printf("  frame %d:", f)
		for c := range int(md.Channels) {
			fmt.Printf(" %+.5f", m.Sample(id, f, c))
		}
		fmt.Println()
	}
}

// export renders what is resident of the first prefetched blocks of id. It
// reads the cache, not the file, so blocks that never arrived are silent.
func export(m *samplecache.Manager, id stream.ID, conf *config) error {
	md, err := m.Metadata(id)
	if err != nil {
		return err
	}

	r, err := m.Reader(id, 0, prefetched(md, conf))
	if err != nil {
		return errors.Wrapf(err, "reader")
	}

	var src audio.Source = audio.NewMixdown(r)
	if conf.exportRate > 0 && conf.exportRate != src.SampleRate() {
		if src, err = audio.NewResampler(src, conf.exportRate); err != nil {
			return errors.Wrapf(err, "resample")
		}
	}
	defer src.Close()

	samples, err := audio.Render16(src, block.FramesPerBlock)
	if err != nil {
		return errors.Wrapf(err, "render")
	}

	f, err := os.Create(conf.export)
	if err != nil {
		return errors.Wrapf(err, "create")
	}
	defer f.Close()

	if err := wav.WriteWAV16(f, src.SampleRate(), samples); err != nil {
		return errors.Wrapf(err, "write")
	}

	return f.Close()
}
