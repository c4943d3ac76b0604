package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/anadex/progress"
	"github.com/shirou/gopsutil/v4/mem"
)

// SplitCollectionFallback is the collection name written into split parts
// when the parent document carries none.
const SplitCollectionFallback = "FRANCELIS"

// memoryHeadroomFactor is the safety margin applied to the file size before
// loading a bulk export into memory.
const memoryHeadroomFactor = 1.2

// availableMemory is swapped out in tests.
var availableMemory = func() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

// SplitPart describes one written split file.
type SplitPart struct {
	Path      string
	ItemCount int
	SizeBytes int64
}

// Splitter partitions a bulk export document into upload-sized parts.
type Splitter struct {
	progressWriter io.Writer
	logger         *slog.Logger
}

// SplitterOption configures a Splitter.
type SplitterOption func(*Splitter)

// WithSplitProgress enables console progress reporting during splits.
func WithSplitProgress(w io.Writer) SplitterOption {
	return func(s *Splitter) {
		s.progressWriter = w
	}
}

// NewSplitter creates a splitter.
func NewSplitter(opts ...SplitterOption) *Splitter {
	s := &Splitter{
		logger: slog.Default().With("component", "export-splitter"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// checkMemoryHeadroom verifies the file fits in available memory with the
// safety margin. This is a resource precondition, not a streaming design: the
// whole document is loaded at once or not at all.
func checkMemoryHeadroom(fileSize int64) error {
	available, err := availableMemory()
	if err != nil {
		return fmt.Errorf("cannot measure available memory: %w", err)
	}

	required := uint64(float64(fileSize) * memoryHeadroomFactor)
	if required > available {
		return fmt.Errorf("%w: file is %.2f MB, required with margin %.2f MB, available %.2f MB",
			ErrInsufficientMemory,
			float64(fileSize)/1024/1024,
			float64(required)/1024/1024,
			float64(available)/1024/1024)
	}
	return nil
}

// Split partitions the export document at path into parts files of ceil-equal
// item counts, written to <stem>_splits/<stem>_<i>.json next to the input.
// Each part carries the parent's collection name (SplitCollectionFallback
// when absent). The memory headroom precondition is checked before the file
// is loaded.
func (s *Splitter) Split(path string, parts int) ([]SplitPart, error) {
	if parts < 1 {
		return nil, ErrInvalidSplitCount
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadExport, path, err)
	}
	if err := checkMemoryHeadroom(info.Size()); err != nil {
		return nil, err
	}

	doc, err := ReadExportFile(path)
	if err != nil {
		return nil, err
	}

	collectionName := doc.CollectionName
	if collectionName == "" {
		collectionName = SplitCollectionFallback
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outDir := filepath.Join(filepath.Dir(path), stem+"_splits")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrWriteExport, outDir, err)
	}

	totalItems := len(doc.Data)
	itemsPerPart := (totalItems + parts - 1) / parts

	var tracker *progress.Tracker
	if s.progressWriter != nil {
		tracker = progress.NewTracker(s.progressWriter, "entries", totalItems, 1)
		tracker.Start()
	}

	var written []SplitPart
	for i := 0; i < parts; i++ {
		start := i * itemsPerPart
		if start >= totalItems {
			break
		}
		end := min(start+itemsPerPart, totalItems)

		outPath := filepath.Join(outDir, fmt.Sprintf("%s_%d.json", stem, i+1))
		f, err := os.Create(outPath)
		if err != nil {
			return written, fmt.Errorf("%w: %s: %w", ErrWriteExport, outPath, err)
		}
		part := &Document{CollectionName: collectionName, Data: doc.Data[start:end]}
		if err := WriteDocument(f, part); err != nil {
			f.Close()
			return written, fmt.Errorf("%w: %s: %w", ErrWriteExport, outPath, err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("%w: %s: %w", ErrWriteExport, outPath, err)
		}

		outInfo, err := os.Stat(outPath)
		if err != nil {
			return written, fmt.Errorf("%w: %s: %w", ErrWriteExport, outPath, err)
		}
		written = append(written, SplitPart{
			Path:      outPath,
			ItemCount: end - start,
			SizeBytes: outInfo.Size(),
		})

		if tracker != nil {
			tracker.Increment(end - start)
		}
		s.logger.Info("split part written",
			"path", outPath,
			"items", end-start,
			"sizeMB", fmt.Sprintf("%.2f", float64(outInfo.Size())/1024/1024))
	}

	if tracker != nil {
		tracker.Finish()
	}

	return written, nil
}
