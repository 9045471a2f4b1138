// lcd-video - play monochrome video on a character LCD
//  Copyright (C) 2020, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.


package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
	goconfig "github.com/TheCacophonyProject/go-config"
	arg "github.com/alexflint/go-arg"
	"github.com/coreos/go-systemd/daemon"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"

	"github.com/TheCacophonyProject/lcd-video/display"
	"github.com/TheCacophonyProject/lcd-video/playerclient"
	"github.com/TheCacophonyProject/lcd-video/receiver"
)

const (
	framesHz = 30 // approx

	frameLogInterval  = 60 * framesHz
	framesPerSdNotify = 5 * framesHz

	watchdogInterval = 10 * time.Second
)

var version = "<not set>"

type Args struct {
	ConfigFile string `arg:"-c,--config" help:"path to configuration file"`
	ConfigDir  string `arg:"--config-dir" help:"path to the device configuration directory"`
	Timestamps bool   `arg:"-t,--timestamps" help:"include timestamps in log output"`
	Status     bool   `arg:"-s,--status" help:"print the status of the running player and exit"`
	Hold       bool   `arg:"--hold" help:"keep the final screen up instead of exiting"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	args.ConfigFile = "/etc/lcd-player.yaml"
	args.ConfigDir = goconfig.DefaultConfigDir
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()
	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	if args.Status {
		return printStatus()
	}

	log.Printf("version: %s", version)
	conf, err := ParseConfigFile(args.ConfigFile)
	if err != nil {
		return err
	}
	if err := readDevice(args.ConfigDir, conf); err != nil {
		log.Printf("reading device identity: %v", err)
	}
	logConfig(conf)

	log.Print("host initialisation")
	if _, err := host.Init(); err != nil {
		return err
	}

	log.Print("opening display")
	lcd, err := display.OpenHD44780(conf.LCD)
	if err != nil {
		return err
	}
	defer lcd.Close()

	led, err := openLED(conf.LEDPin)
	if err != nil {
		return err
	}

	var indicator receiver.Indicator
	if led != nil {
		indicator = led
	}
	hooks := &playerHooks{deviceName: conf.DeviceName}
	player := receiver.NewPlayer(conf.PlayerConfig(), lcd, indicator, hooks)

	log.Print("starting d-bus service")
	if err := startService(player.Status); err != nil {
		return err
	}

	if err := player.Connecting(); err != nil {
		return err
	}
	addr, err := receiver.LocalAddress()
	if err != nil {
		if serr := display.ShowStatus(lcd, conf.LCD.Cols, conf.LCD.Rows, "No network!"); serr != nil {
			log.Printf("showing network failure: %v", serr)
		}
		return err
	}
	log.Printf("address: %s", addr)
	if err := player.ShowAddress(addr); err != nil {
		return err
	}
	time.Sleep(conf.ConnectDelay)

	listener, err := receiver.Listen(conf.Port)
	if err != nil {
		return err
	}
	daemon.SdNotify(false, daemon.SdNotifyReady)

	if err := player.Waiting(); err != nil {
		listener.Close()
		return err
	}
	log.Printf("waiting for connection on port %d", conf.Port)
	stopWatchdog := feedWatchdog(watchdogInterval, notifyWatchdog)
	conn, err := receiver.AcceptOne(listener)
	stopWatchdog()
	if err != nil {
		return err
	}
	log.Printf("connection from %s", conn.RemoteAddr())

	err = player.Play(conn)
	conn.Close()

	if args.Hold {
		log.Printf("holding after: %v", err)
		hold()
	}
	return err
}

// hold blocks forever keeping the watchdog fed, leaving the final
// screen up.
func hold() {
	feedWatchdog(watchdogInterval, notifyWatchdog)
	select {}
}

func printStatus() error {
	status, err := playerclient.GetStatus()
	if err != nil {
		return fmt.Errorf("querying lcd-player: %w", err)
	}
	fmt.Println(status)
	if status.State.Terminal() {
		return errors.New("player has stopped")
	}
	return nil
}

func readDevice(configDir string, conf *Config) error {
	configRW, err := goconfig.New(configDir)
	if err != nil {
		return err
	}
	var device goconfig.Device
	if err := configRW.Unmarshal(goconfig.DeviceKey, &device); err != nil {
		return err
	}
	conf.DeviceID = device.ID
	conf.DeviceName = device.Name
	return nil
}

func logConfig(conf *Config) {
	if conf.DeviceName != "" {
		log.Printf("device: %s (%d)", conf.DeviceName, conf.DeviceID)
	}
	log.Printf("port: %d", conf.Port)
	log.Printf("pacing: %s", conf.Pacing)
	log.Printf("lcd: %dx%d at 0x%02x on %q", conf.LCD.Cols, conf.LCD.Rows, conf.LCD.Address, conf.LCD.Bus)
	if conf.LEDPin != "" {
		log.Printf("led pin: %s", conf.LEDPin)
	}
	log.Printf("reclaim interval: %d frames", conf.ReclaimInterval)
	log.Printf("connect delay: %s", conf.ConnectDelay)
}

type gpioLED struct {
	pin gpio.PinIO
}

func openLED(pinName string) (*gpioLED, error) {
	if pinName == "" {
		return nil, nil
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("unknown led pin %q", pinName)
	}
	led := &gpioLED{pin: pin}
	if err := led.Set(false); err != nil {
		return nil, fmt.Errorf("failed to set led pin low: %v", err)
	}
	return led, nil
}

func (l *gpioLED) Set(on bool) error {
	if on {
		return l.pin.Out(gpio.High)
	}
	return l.pin.Out(gpio.Low)
}

// playerHooks feeds the systemd watchdog while frames arrive and reports
// the end of playback to the event reporter.
type playerHooks struct {
	deviceName  string
	notifyCount int
}

func (h *playerHooks) FrameRendered(frames int) {
	if h.notifyCount++; h.notifyCount >= framesPerSdNotify {
		notifyWatchdog()
		h.notifyCount = 0
	}
	if frames%frameLogInterval == 0 {
		log.Printf("%d frames played", frames)
	}
}

func (h *playerHooks) StateChanged(status receiver.Status) {
	log.Printf("player %s", status)
	if !status.State.Terminal() {
		return
	}
	event := eventclient.Event{
		Timestamp: time.Now(),
		Type:      "lcdPlayerStopped",
		Details:   stoppedDetails(status, h.deviceName),
	}
	if err := eventclient.AddEvent(event); err != nil {
		log.Printf("failed to report stop event: %v", err)
	}
}

func stoppedDetails(status receiver.Status, deviceName string) map[string]interface{} {
	details := map[string]interface{}{
		"state":  status.State.String(),
		"frames": status.Frames,
	}
	if status.Err != nil {
		details["error"] = status.Err.Error()
	}
	if deviceName != "" {
		details["device"] = deviceName
	}
	return details
}
