// Package alphasign encodes commands for LED message signs that speak the
// Alpha Sign Communications Protocol (Betabrite, Alpha 2.0 and friends) and
// delivers them over a serial line or USB.
//
// # Overview
//
// A sign stores "files" in its memory: TEXT messages, STRING variables and
// DOTS PICTURE bitmaps. Before a file can be written the sign must be told
// how much memory to reserve for it, and which TEXT files to show in which
// order. This package builds those commands, wraps them in the Alpha packet
// envelope and writes them to the sign with the pacing the hardware needs.
//
// # Data Flow
//
//  1. Create device files (NewText, NewString, NewSmallDots, NewLargeDots,
//     NewRGBDots). Parameters are validated here, never later.
//  2. Build commands: BuildAllocation, BuildRunSequence, file.Serialize(),
//     ClearMemory, Beep, SoftReset.
//  3. Frame each command with a Framer (PacketFramer by default).
//  4. Send the frames with a Transport over a Link (serial, debug, or USB
//     from the usblink package).
//
// # Quick Start
//
//	framer, _ := alphasign.NewPacketFramer()
//	tr := alphasign.NewTransport(alphasign.DialSerial(alphasign.SerialConfig{
//	    Device: "/dev/ttyUSB0",
//	}))
//	defer tr.Disconnect()
//
//	msg, _ := alphasign.NewText("A", "HELLO")
//	pic, _ := alphasign.NewSmallDots("1", 2, 3, []string{"101", "010"}, alphasign.ColorMonochrome)
//
//	cmds, err := alphasign.BuildAllocation([]alphasign.DeviceFile{msg, pic})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, cmd := range cmds {
//	    tr.Write(framer.Frame(cmd))
//	}
//	tr.Write(framer.Frame(pic.Serialize()))
//	tr.Write(framer.Frame(msg.Serialize()))
//
// # Pacing
//
// SMALL DOTS PICTURE writes are split after the dimension field and paused,
// LARGE and RGB DOTS PICTURE writes are cut into link sized packets with a
// pause between them. See Transport.
//
// # Thread Safety
//
// Device files are immutable and may be shared. A Transport serializes its
// own calls with a mutex; the protocol has no sequence numbers, so two
// Transports must never share one sign.
package alphasign
