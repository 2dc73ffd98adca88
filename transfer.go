package main

import (
	"errors"
	"fmt"
	"sync"
)

// Transport is the single capability the protocol core needs from the
// platform HID layer: send one 17-byte report and block for its reply.
type Transport interface {
	Exchange(frame [frameSize]byte) ([frameSize]byte, error)
	Close() error
}

// maxTransferFrames bounds a full-profile transfer: ceil(6912/10) frames. A
// transfer still running past this is a protocol violation, not progress.
const maxTransferFrames = (profileSize + maxFramePayload - 1) / maxFramePayload

// Mouse is one exclusively-owned configuration session. The protocol is
// half-duplex with no request correlation, so all operations serialize on
// the session lock; never share a Transport across sessions.
type Mouse struct {
	mu sync.Mutex
	t  Transport
}

func NewMouse(t Transport) *Mouse {
	return &Mouse{t: t}
}

// exchange sends one request frame and returns the decoded response. A
// transport-level failure is retried once; anything else (device error
// code, checksum mismatch, command mismatch) is immediately fatal so a
// broken transfer never limps along half-applied.
func (m *Mouse) exchange(cmd uint8, addr uint16, payload []byte) (Frame, error) {
	raw, err := encodeFrame(cmd, 0, addr, payload)
	if err != nil {
		return Frame{}, err
	}

	resp, err := m.t.Exchange(raw)
	if err != nil {
		var terr *TransportError
		if !errors.As(err, &terr) {
			return Frame{}, err
		}
		if verbose {
			fmt.Printf("retrying frame at 0x%04X after transport error: %v\n", addr, err)
		}
		if resp, err = m.t.Exchange(raw); err != nil {
			return Frame{}, err
		}
	}

	frame, err := decodeFrame(resp)
	if err != nil {
		return Frame{}, err
	}
	if frame.Command != cmd {
		return Frame{}, &ProtocolError{
			Reason: fmt.Sprintf("response command 0x%02X for request 0x%02X", frame.Command, cmd),
		}
	}
	if err := frame.Err(); err != nil {
		return Frame{}, err
	}
	return frame, nil
}

// readBlob collects the active profile's full blob with sequential
// GetProfileData frames. The address advances by the length the device
// actually returned, which may be less than requested.
func (m *Mouse) readBlob() ([]byte, error) {
	blob := make([]byte, 0, profileSize)
	for frames := 0; len(blob) < profileSize; frames++ {
		if frames >= maxTransferFrames {
			return nil, &ProtocolError{Reason: "profile read did not terminate"}
		}

		want := profileSize - len(blob)
		if want > maxFramePayload {
			want = maxFramePayload
		}
		resp, err := m.exchange(cmdGetProfileData, uint16(len(blob)), make([]byte, want))
		if err != nil {
			return nil, err
		}
		if resp.Address != uint16(len(blob)) {
			return nil, &ProtocolError{
				Reason: fmt.Sprintf("read response for 0x%04X, expected 0x%04X", resp.Address, len(blob)),
			}
		}
		if len(resp.Payload) == 0 || len(resp.Payload) > want {
			return nil, &ProtocolError{
				Reason: fmt.Sprintf("read response carries %d bytes, requested %d", len(resp.Payload), want),
			}
		}
		blob = append(blob, resp.Payload...)
	}
	return blob, nil
}

// writeBlob sends a full profile blob with address-monotonic SetProfileData
// frames, 10 bytes each and a short final remainder. The per-frame retry
// lives in exchange; a second failure aborts the sequence, which can leave
// the device profile partially written. There is no way to roll that back,
// only to report it.
func (m *Mouse) writeBlob(blob []byte) error {
	if len(blob) != profileSize {
		return &ProtocolError{Reason: "profile blob must be 6912 bytes"}
	}
	for off := 0; off < profileSize; off += maxFramePayload {
		end := off + maxFramePayload
		if end > profileSize {
			end = profileSize
		}
		if _, err := m.exchange(cmdSetProfileData, uint16(off), blob[off:end]); err != nil {
			return fmt.Errorf("writing profile data at 0x%04X: %w", off, err)
		}
	}
	return nil
}

func (m *Mouse) activeIndex() (int, error) {
	resp, err := m.exchange(cmdGetActiveProfile, 0, nil)
	if err != nil {
		return 0, err
	}
	if len(resp.Payload) < 1 {
		return 0, &ProtocolError{Reason: "empty active-profile response"}
	}
	return int(resp.Payload[0]), nil
}

func (m *Mouse) setActiveIndex(index int) error {
	if index < 0 || index >= numProfiles {
		return &RangeError{Field: "profile_index", Value: index}
	}
	_, err := m.exchange(cmdSetActiveProfile, 0, []byte{uint8(index)})
	return err
}

// withProfile switches the mouse to profile index, runs fn, and restores the
// previously active profile. Only the active profile is addressable, so
// every per-slot operation goes through here.
func (m *Mouse) withProfile(index int, fn func() error) error {
	active, err := m.activeIndex()
	if err != nil {
		return err
	}
	if active != index {
		if err := m.setActiveIndex(index); err != nil {
			return err
		}
	}

	opErr := fn()

	if active != index {
		if err := m.setActiveIndex(active); err != nil {
			if opErr != nil {
				return opErr
			}
			return fmt.Errorf("restoring active profile %d: %w", active, err)
		}
	}
	return opErr
}

// ActiveIndex returns the active profile slot (0-3).
func (m *Mouse) ActiveIndex() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeIndex()
}

// SetActiveIndex selects the active profile slot (0-3).
func (m *Mouse) SetActiveIndex(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setActiveIndex(index)
}

// Profile reads and decodes profile slot index.
func (m *Mouse) Profile(index int) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= numProfiles {
		return nil, &RangeError{Field: "profile_index", Value: index}
	}
	var p *Profile
	err := m.withProfile(index, func() error {
		blob, err := m.readBlob()
		if err != nil {
			return err
		}
		p, err = profileFromBytes(blob)
		return err
	})
	return p, err
}

// Profiles reads all stored profiles.
func (m *Mouse) Profiles() ([]*Profile, error) {
	profiles := make([]*Profile, numProfiles)
	for i := range profiles {
		p, err := m.Profile(i)
		if err != nil {
			return nil, fmt.Errorf("profile %d: %w", i+1, err)
		}
		profiles[i] = p
	}
	return profiles, nil
}

// Apply merges patch into the current contents of profile slot index and
// writes the merged profile back whole. Reading first and overwriting the
// full blob trades bandwidth for never mixing old and new field boundaries
// on the device.
func (m *Mouse) Apply(index int, patch *PartialProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= numProfiles {
		return &RangeError{Field: "profile_index", Value: index}
	}
	return m.withProfile(index, func() error {
		blob, err := m.readBlob()
		if err != nil {
			return err
		}
		base, err := profileFromBytes(blob)
		if err != nil {
			return err
		}
		merged := patch.Merge(*base)
		out, err := profileToBytes(&merged)
		if err != nil {
			return err
		}
		return m.writeBlob(out)
	})
}

// ApplyAll applies one patch per profile slot, in slot order.
func (m *Mouse) ApplyAll(patches []*PartialProfile) error {
	if len(patches) != numProfiles {
		return &CountError{Field: "profiles", Value: len(patches), Max: numProfiles}
	}
	for i, patch := range patches {
		if patch == nil {
			continue
		}
		if err := m.Apply(i, patch); err != nil {
			return fmt.Errorf("profile %d: %w", i+1, err)
		}
	}
	return nil
}

// Close releases the underlying transport.
func (m *Mouse) Close() error {
	return m.t.Close()
}
