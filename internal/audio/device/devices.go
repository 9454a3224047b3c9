package device

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gordonklaus/portaudio"
)

func inputDevice(deviceNameOrID string) (*portaudio.DeviceInfo, error) {
	return find(deviceNameOrID, "input", portaudio.DefaultInputDevice, func(d *portaudio.DeviceInfo) bool {
		return d.MaxInputChannels > 0
	})
}

func outputDevice(deviceNameOrID string) (*portaudio.DeviceInfo, error) {
	return find(deviceNameOrID, "output", portaudio.DefaultOutputDevice, func(d *portaudio.DeviceInfo) bool {
		return d.MaxOutputChannels > 0
	})
}

func find(deviceNameOrID, kind string, defaultDevice func() (*portaudio.DeviceInfo, error), usable func(*portaudio.DeviceInfo) bool) (d *portaudio.DeviceInfo, err error) {
	if deviceNameOrID == "" {
		d, err = defaultDevice()
		if err != nil {
			return nil, fmt.Errorf("get default audio %s device: %w", kind, err)
		}
	} else {
		d, err = lookup(deviceNameOrID)
		if err != nil {
			return nil, fmt.Errorf("get audio %s device: %w", kind, err)
		}

		if !usable(d) {
			PrintAvailableDevices()
			return nil, fmt.Errorf("audio device %q is not an %s device or in use by another program", d.Name, kind)
		}
	}

	slog.Debug(fmt.Sprintf("using audio %s device %q, sample rate: %d", kind, d.Name, int(d.DefaultSampleRate)))

	return d, nil
}

func lookup(device string) (*portaudio.DeviceInfo, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list available audio devices: %w", err)
	}

	deviceID, err := strconv.ParseInt(device, 10, 32)
	if err != nil {
		for _, d := range devices {
			if strings.Contains(d.Name, device) {
				return d, nil
			}
		}

		PrintAvailableDevices()

		return nil, fmt.Errorf("audio device %q not found", device)
	}

	if deviceID >= int64(len(devices)) || deviceID < 0 {
		PrintAvailableDevices()

		return nil, fmt.Errorf("audio device %d not found - please specify the ID of an existing device", deviceID)
	}

	return devices[deviceID], nil
}

// PrintAvailableDevices lists the audio devices on stderr.
func PrintAvailableDevices() {
	devices, err := portaudio.Devices()
	if err != nil {
		slog.Warn(fmt.Sprintf("get available audio devices: %s", err))
		return
	}

	fmt.Fprintln(os.Stderr, "\nAvailable audio devices:")
	format := "%2s  %-55s  %2s  %3s  %s\n"
	fmt.Fprintf(os.Stderr, format, "ID", "NAME", "IN", "OUT", "SAMPLERATE")
	for i, device := range devices {
		fmt.Fprintf(os.Stderr, "%2d  %-55s  %2d  %3d  %10d\n", i, device.Name, device.MaxInputChannels, device.MaxOutputChannels, int(device.DefaultSampleRate))
	}
	fmt.Fprintln(os.Stderr)
}
