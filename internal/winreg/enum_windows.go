//go:build windows

package winreg

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/gersonkurz/regkit/pkg/types"
)

const (
	initialNameBuffer = 256       // UTF-16 code units
	initialDataBuffer = 16 * 1024 // bytes
	maxEnumBuffer     = 1 << 24   // hard cap for the doubling retry loop
)

var (
	modadvapi32         = windows.NewLazySystemDLL("advapi32.dll")
	procRegEnumValueW   = modadvapi32.NewProc("RegEnumValueW")
	procRegSetValueExW  = modadvapi32.NewProc("RegSetValueExW")
	procRegDeleteValueW = modadvapi32.NewProc("RegDeleteValueW")
)

// SubkeyIterator enumerates child key names lazily: the next name is
// fetched only when the caller advances past the current one.
type SubkeyIterator struct {
	h     windows.Handle
	index uint32
	buf   []uint16
	name  string
	err   error
	done  bool
}

// Subkeys returns a lazy iterator over the key's immediate children.
func (k *Key) Subkeys() *SubkeyIterator {
	return &SubkeyIterator{h: windows.Handle(k.h), buf: make([]uint16, initialNameBuffer)}
}

// Next advances to the next subkey name.
func (it *SubkeyIterator) Next() bool {
	if it.done {
		return false
	}
	for {
		size := uint32(len(it.buf))
		err := windows.RegEnumKeyEx(it.h, it.index, &it.buf[0], &size, nil, nil, nil, nil)
		switch err {
		case nil:
			it.name = windows.UTF16ToString(it.buf[:size])
			it.index++
			return true
		case windows.ERROR_NO_MORE_ITEMS:
			it.done = true
			return false
		case windows.ERROR_MORE_DATA:
			if len(it.buf)*2 > maxEnumBuffer {
				it.err = &types.Error{Kind: types.ErrKindState, Msg: "subkey name exceeds enumeration buffer cap"}
				it.done = true
				return false
			}
			it.buf = make([]uint16, len(it.buf)*2)
		default:
			it.err = err
			it.done = true
			return false
		}
	}
}

// Name returns the current subkey name.
func (it *SubkeyIterator) Name() string { return it.name }

// Err returns the first enumeration failure, if any.
func (it *SubkeyIterator) Err() error { return it.err }

// ValueIterator enumerates values lazily, delivering name, type, and the
// raw payload in its native encoding.
type ValueIterator struct {
	h       windows.Handle
	index   uint32
	nameBuf []uint16
	dataBuf []byte
	entry   ValueEntry
	err     error
	done    bool
}

// Values returns a lazy iterator over the key's values.
func (k *Key) Values() *ValueIterator {
	return &ValueIterator{
		h:       windows.Handle(k.h),
		nameBuf: make([]uint16, initialNameBuffer),
		dataBuf: make([]byte, initialDataBuffer),
	}
}

// Next advances to the next value, growing both buffers on demand with
// the same doubling retry loop the subkey iterator uses.
func (it *ValueIterator) Next() bool {
	if it.done {
		return false
	}
	for {
		nameLen := uint32(len(it.nameBuf))
		dataLen := uint32(len(it.dataBuf))
		var typ uint32
		err := regEnumValue(it.h, it.index, it.nameBuf, &nameLen, &typ, it.dataBuf, &dataLen)
		switch err {
		case nil:
			it.entry = ValueEntry{
				Name: windows.UTF16ToString(it.nameBuf[:nameLen]),
				Type: types.RegType(typ),
				Data: append([]byte(nil), it.dataBuf[:dataLen]...),
			}
			it.index++
			return true
		case windows.ERROR_NO_MORE_ITEMS:
			it.done = true
			return false
		case windows.ERROR_MORE_DATA:
			if len(it.nameBuf)*2 > maxEnumBuffer || len(it.dataBuf)*2 > maxEnumBuffer {
				it.err = &types.Error{Kind: types.ErrKindState, Msg: "value exceeds enumeration buffer cap"}
				it.done = true
				return false
			}
			it.nameBuf = make([]uint16, len(it.nameBuf)*2)
			it.dataBuf = make([]byte, len(it.dataBuf)*2)
		default:
			it.err = err
			it.done = true
			return false
		}
	}
}

// Value returns the current entry.
func (it *ValueIterator) Value() ValueEntry { return it.entry }

// Err returns the first enumeration failure, if any.
func (it *ValueIterator) Err() error { return it.err }

// -----------------------------------------------------------------------------
// advapi32 calls not surfaced by x/sys/windows
// -----------------------------------------------------------------------------

func regEnumValue(h windows.Handle, index uint32, name []uint16, nameLen, typ *uint32, data []byte, dataLen *uint32) error {
	var dataPtr *byte
	if len(data) > 0 {
		dataPtr = &data[0]
	}
	r0, _, _ := procRegEnumValueW.Call(
		uintptr(h),
		uintptr(index),
		uintptr(unsafe.Pointer(&name[0])),
		uintptr(unsafe.Pointer(nameLen)),
		0,
		uintptr(unsafe.Pointer(typ)),
		uintptr(unsafe.Pointer(dataPtr)),
		uintptr(unsafe.Pointer(dataLen)))
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}

func regSetValueEx(h windows.Handle, name string, typ uint32, data []byte) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	var dataPtr *byte
	if len(data) > 0 {
		dataPtr = &data[0]
	}
	r0, _, _ := procRegSetValueExW.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(namePtr)),
		0,
		uintptr(typ),
		uintptr(unsafe.Pointer(dataPtr)),
		uintptr(len(data)))
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}

func regDeleteValue(h windows.Handle, name string) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	r0, _, _ := procRegDeleteValueW.Call(uintptr(h), uintptr(unsafe.Pointer(namePtr)))
	if r0 != 0 {
		return syscall.Errno(r0)
	}
	return nil
}
