// Package buffer implements the page-aligned sliding-window buffer the
// spec describes in §4.1. A single PageBuffer is allocated per scanned
// file and persists until the file is done, growing its save region on
// demand rather than reallocating per read the way a naive bufio.Reader
// would.
//
// This generalizes DTail's chunkedreader (internal/io/fs), which grew a
// []byte read buffer geometrically but had no notion of a save region or
// mmap-backed fill; xgrep adds both because the context-line and
// zero-copy requirements in §4.1 have no equivalent in DTail's line-at-a-
// time tailing model.
package buffer

import (
	"io"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	xerrors "github.com/mimecast/xgrep/internal/errors"
	"github.com/mimecast/xgrep/internal/constants"
)

// PageBuffer holds one page-aligned, over-allocated region of memory
// plus the bookkeeping needed to slide a read window across it while
// retaining a save region of trailing context bytes at the front.
type PageBuffer struct {
	pageSize       int
	saveRegionSize int
	totalSize      int
	base           []byte

	begin int // start of the live window, inclusive, index into base
	end   int // end of the live window, exclusive, index into base

	fileOffset int64 // offset in the underlying file where the next fill reads from
	mmapped    bool  // whether the most recent fill came from a direct mmap
	useMmap    bool
	preserveCR bool

	fd        *os.File
	isRegular bool
}

// New returns a PageBuffer ready to be attached to a file with Reset.
func New() *PageBuffer {
	return &PageBuffer{pageSize: unix.Getpagesize()}
}

// Reset attaches the buffer to a newly opened file, releasing any
// memory held from a previous file. initialOffset lets callers resume a
// stdin-like stream (or reposition after a quiet-mode early exit, §4.6)
// at a byte offset other than zero.
func (b *PageBuffer) Reset(fd *os.File, isRegular bool, initialOffset int64, useMmap, preserveCR bool) error {
	if err := b.release(); err != nil {
		return err
	}
	b.fd = fd
	b.isRegular = isRegular
	b.fileOffset = initialOffset
	b.useMmap = useMmap && isRegular
	b.preserveCR = preserveCR
	b.begin = 0
	b.end = 0
	b.mmapped = false

	if b.saveRegionSize == 0 {
		b.saveRegionSize = roundUp(constants.MinSaveRegionSize, b.pageSize)
	}
	return b.allocate(b.saveRegionSize)
}

// Bytes returns the currently live window: the retained save bytes
// followed by the freshly read bytes.
func (b *PageBuffer) Bytes() []byte {
	return b.base[b.begin:b.end]
}

// FileOffset reports the file offset just past the last byte read into
// the current window, which is where the next fill reads from.
func (b *PageBuffer) FileOffset() int64 {
	return b.fileOffset
}

// Mmapped reports whether the most recent Fill obtained its bytes via a
// direct memory mapping rather than a read(2) loop.
func (b *PageBuffer) Mmapped() bool {
	return b.mmapped
}

// Fill grows the save region to hold at least saveBytes of retained
// context, then reads (or maps) the next chunk of the file immediately
// after it. It returns ok==false once the file is exhausted with
// nothing left to read.
//
// Steps follow §4.1:
//  1. grow the save region until it can hold saveBytes, doubling and
//     then page-rounding;
//  2. recompute total size as a fixed multiple of the save region; the
//     total is not capped by the remaining size of the file;
//  3. reallocate if the new total size exceeds the current allocation,
//     preserving the save bytes at the front of the new allocation;
//  4. fill the region after the save bytes, preferring mmap for regular
//     files and falling back to read(2) otherwise;
//  5. optionally translate CRLF to LF in the freshly read bytes.
func (b *PageBuffer) Fill(saveBytes int) (bool, error) {
	if saveBytes < 0 {
		saveBytes = 0
	}
	if saveBytes > b.saveRegionSize {
		newSave := b.saveRegionSize
		for newSave < saveBytes {
			newSave *= 2
		}
		newSave = roundUp(newSave, b.pageSize)
		if err := b.growSaveRegion(newSave, saveBytes); err != nil {
			return false, err
		}
	}

	// Slide the retained bytes to the front of the save region.
	saveStart := b.saveRegionSize - saveBytes
	if saveBytes > 0 && b.end > b.begin {
		copy(b.base[saveStart:b.saveRegionSize], b.base[b.end-saveBytes:b.end])
	}

	n, mmapped, err := b.fillWindow(b.saveRegionSize, b.totalSize-b.saveRegionSize)
	if err != nil {
		return false, err
	}
	b.mmapped = mmapped
	if n == 0 {
		b.begin = saveStart
		b.end = b.saveRegionSize
		return saveBytes > 0, nil
	}

	b.fileOffset += int64(n)
	liveLen := n
	if !b.preserveCR {
		liveLen = translateCRLF(b.base[b.saveRegionSize : b.saveRegionSize+n])
	}

	b.begin = saveStart
	b.end = b.saveRegionSize + liveLen
	return true, nil
}

func (b *PageBuffer) growSaveRegion(newSave, saveBytes int) error {
	newTotal := roundUp(newSave*constants.PreferredSaveFactor, b.pageSize)
	newBase, err := mmapAnon(newTotal + 1)
	if err != nil {
		return xerrors.Wrap(err, "allocate page buffer")
	}
	if saveBytes > 0 {
		copy(newBase[newSave-saveBytes:newSave], b.base[b.end-saveBytes:b.end])
	}
	if err := munmapAnon(b.base); err != nil {
		return xerrors.Wrap(err, "release page buffer")
	}
	b.base = newBase
	b.saveRegionSize = newSave
	b.totalSize = newTotal
	b.begin = newSave - saveBytes
	b.end = newSave
	return nil
}

func (b *PageBuffer) allocate(saveRegionSize int) error {
	total := roundUp(saveRegionSize*constants.PreferredSaveFactor, b.pageSize)
	base, err := mmapAnon(total + 1)
	if err != nil {
		return xerrors.Wrap(err, "allocate page buffer")
	}
	b.base = base
	b.saveRegionSize = saveRegionSize
	b.totalSize = total
	return nil
}

// fillWindow attempts a direct mmap of the file into dst[at:at+room]
// first (when useMmap is set), falling back to a retrying read(2) loop.
func (b *PageBuffer) fillWindow(at, room int) (int, bool, error) {
	if room <= 0 || b.fd == nil {
		return 0, false, nil
	}

	if b.useMmap && b.fileOffset%int64(b.pageSize) == 0 {
		n, err := b.tryMmapFill(at, room)
		if err == nil {
			return n, true, nil
		}
		// Any mmap failure (short file, unsupported fd, EOF) falls back
		// to the portable read(2) path below rather than surfacing.
	}

	n, err := b.readFill(at, room)
	return n, false, err
}

func (b *PageBuffer) tryMmapFill(at, room int) (int, error) {
	fi, err := b.fd.Stat()
	if err != nil {
		return 0, err
	}
	if rest := fi.Size() - b.fileOffset; rest < int64(room) {
		room = int(rest)
	}
	if room <= 0 {
		return 0, io.EOF
	}
	mapped, err := unix.Mmap(int(b.fd.Fd()), b.fileOffset, room, unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return 0, err
	}
	defer unix.Munmap(mapped)
	n := copy(b.base[at:at+room], mapped)
	if n == 0 {
		return 0, io.EOF
	}
	// Keep the descriptor's position in step so a later read(2) fill
	// continues right after the mapped bytes.
	if _, err := b.fd.Seek(b.fileOffset+int64(n), io.SeekStart); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *PageBuffer) readFill(at, room int) (int, error) {
	total := 0
	retries := 0
	for total < room {
		n, err := b.fd.Read(b.base[at+total : at+room])
		if n > 0 {
			total += n
			retries = 0
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			if xerrors.Is(err, syscall.EINTR) && retries < constants.MaxReadRetries {
				retries++
				continue
			}
			return total, xerrors.Wrap(err, "read file")
		}
		break
	}
	return total, nil
}

func (b *PageBuffer) release() error {
	if b.base == nil {
		return nil
	}
	err := munmapAnon(b.base)
	b.base = nil
	return err
}

// Close releases the buffer's backing memory. Safe to call once the
// file being scanned is fully processed.
func (b *PageBuffer) Close() error {
	return b.release()
}

func roundUp(n, page int) int {
	if n <= 0 {
		return page
	}
	return (n + page - 1) / page * page
}

// translateCRLF rewrites "\r\n" to "\n" in place and returns the new
// length, mirroring the DOS-to-UNIX line-ending normalization in §4.1.
func translateCRLF(buf []byte) int {
	w := 0
	for r := 0; r < len(buf); r++ {
		if buf[r] == '\r' && r+1 < len(buf) && buf[r+1] == '\n' {
			continue
		}
		buf[w] = buf[r]
		w++
	}
	return w
}

func mmapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
}

func munmapAnon(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
