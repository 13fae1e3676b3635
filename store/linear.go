package store

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/nantag/errors"
)

// PageSize is the size of one linear memory page.
const PageSize = 65536

// maxPages is the 32-bit linear memory limit (4GiB).
const maxPages = 65536

// Config holds configuration for linear memory creation
type Config struct {
	// Pages is the initial size in 64KiB pages. 0 means 1.
	Pages uint32

	// MemoryLimitPages caps growth in pages.
	// 0 means no growth beyond Pages.
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// LinearMemory is a wazero linear memory exported by an otherwise empty
// module. It implements nantag.Memory and nantag.MemorySizer.
type LinearMemory struct {
	runtime wazero.Runtime
	mem     api.Memory
}

// NewLinearMemory starts a wazero runtime holding one memory.
func NewLinearMemory(ctx context.Context, cfg *Config) (*LinearMemory, error) {
	pages := uint32(1)
	var limit uint32
	if cfg != nil {
		if cfg.Pages > 0 {
			pages = cfg.Pages
		}
		limit = cfg.MemoryLimitPages
	}
	if limit == 0 {
		limit = pages
	}
	if pages > maxPages || limit > maxPages {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("memory of %d pages exceeds %d", max(pages, limit), maxPages))
	}
	if limit < pages {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("memory limit %d below initial size %d", limit, pages))
	}

	runtimeCfg := wazero.NewRuntimeConfig().WithMemoryLimitPages(limit)
	rt := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	mod, err := rt.Instantiate(ctx, memoryModule(pages, limit))
	if err != nil {
		closeRuntime(ctx, rt)
		return nil, errors.AllocationFailed(errors.PhaseConfig, "linear memory", err)
	}
	mem := mod.ExportedMemory(memoryExport)
	if mem == nil {
		closeRuntime(ctx, rt)
		return nil, errors.AllocationFailed(errors.PhaseConfig, "linear memory", fmt.Errorf("module does not export %q", memoryExport))
	}

	return &LinearMemory{runtime: rt, mem: mem}, nil
}

func closeRuntime(ctx context.Context, rt wazero.Runtime) {
	if err := rt.Close(ctx); err != nil {
		Logger().Warn("failed to close wazero runtime", zap.Error(err))
	}
}

// ReadU64 reads a little-endian word at offset.
func (m *LinearMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseLoad, []string{"memory"}, int(offset), int(m.mem.Size()))
	}
	return val, nil
}

// WriteU64 writes a little-endian word at offset.
func (m *LinearMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseStore, []string{"memory"}, int(offset), int(m.mem.Size()))
	}
	return nil
}

// Size returns the current memory size in bytes.
func (m *LinearMemory) Size() uint32 {
	return m.mem.Size()
}

// Grow adds delta pages and returns the previous size in pages.
func (m *LinearMemory) Grow(delta uint32) (uint32, error) {
	prev, ok := m.mem.Grow(delta)
	if !ok {
		return 0, errors.New(errors.PhaseAlloc, errors.KindExhausted).
			Detail("cannot grow memory by %d pages from %d", delta, m.mem.Size()/PageSize).
			Build()
	}
	return prev, nil
}

// Close releases the module and its runtime.
func (m *LinearMemory) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
