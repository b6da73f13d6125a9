// Package testhelper provides fault-injection wrappers around a
// backend.Device, adapted from the teacher's FileImpl: a struct of
// optional function fields that default to delegating to a real
// implementation, letting a test override exactly one operation.
package testhelper

import "github.com/nor-sfs/norfs/backend"

// ReadHook and WriteHook let a test observe or corrupt a single Read/Write
// call. They receive the same arguments as backend.Device and the result
// the underlying device actually produced; returning a different error or
// mutating data in place injects the fault.
type ReadHook func(addr uint32, data []byte, n int, err error) error
type WriteHook func(addr uint32, data []byte, n int, err error) error

// StubDevice wraps an underlying backend.Device, running ReadHook/WriteHook
// on every call when set. A nil hook is a pure pass-through.
type StubDevice struct {
	backend.Device

	ReadHook  ReadHook
	WriteHook WriteHook

	reads  int
	writes int
}

var _ backend.Device = (*StubDevice)(nil)

// NewStubDevice wraps dev with no hooks installed; set ReadHook/WriteHook
// afterward to inject faults.
func NewStubDevice(dev backend.Device) *StubDevice {
	return &StubDevice{Device: dev}
}

func (s *StubDevice) Read(addr uint32, data []byte, n int) error {
	s.reads++
	err := s.Device.Read(addr, data, n)
	if s.ReadHook != nil {
		return s.ReadHook(addr, data, n, err)
	}
	return err
}

func (s *StubDevice) Write(addr uint32, data []byte, n int) error {
	s.writes++
	err := s.Device.Write(addr, data, n)
	if s.WriteHook != nil {
		return s.WriteHook(addr, data, n, err)
	}
	return err
}

// ReadCount and WriteCount report how many times Read/Write were called,
// for asserting a corruption scenario actually exercised the expected
// number of retries.
func (s *StubDevice) ReadCount() int  { return s.reads }
func (s *StubDevice) WriteCount() int { return s.writes }
