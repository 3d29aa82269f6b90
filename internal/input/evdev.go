package input

import (
	"encoding/binary"
	"log"
	"os"
	"syscall"
)

const evKey = 0x01

type rawEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// ReadDevice streams key events from an evdev node such as
// /dev/input/event0. Unlike the terminal reader it sees releases, which
// makes held sliders judge exactly. Auto-repeat events are dropped.
func ReadDevice(kbd string, events chan<- Event) error {
	file, err := os.Open(kbd)
	if err != nil {
		return err
	}
	go func() {
		defer file.Close()

		var ev rawEvent
		for {
			err = binary.Read(file, binary.LittleEndian, &ev)
			if nil != err {
				log.Println(err, "unable to read keyboard input")
				return
			}
			if ev.Type != evKey || ev.Value > 1 {
				continue
			}
			events <- Event{
				Key:     Key(ev.Code),
				Pressed: ev.Value == 1,
			}
		}
	}()
	return nil
}
