//go:build !rp2040 && !rp2350

// zwmon reads the firmware's telemetry lines from a serial port, or stdin
// with -p -, logs them and raises alarms.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/golang/glog"

	"zacwire-go/monitor"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., /dev/ttyACM0), - for stdin")
		configFlag = flag.String("config", "zwmon.yaml", "Configuration file path")
		listFlag   = flag.Bool("list", false, "List serial ports and exit")
		saveFlag   = flag.Bool("save", false, "Write the effective configuration back to -config and exit")
	)
	flag.Parse()
	defer glog.Flush()

	if *listFlag {
		ports, err := monitor.Ports()
		if err != nil {
			glog.Exitf("%v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}

	cfg, err := monitor.Load(*configFlag)
	if err != nil {
		glog.Exitf("Failed to load configuration: %v", err)
	}
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *saveFlag {
		if err := cfg.Save(*configFlag); err != nil {
			glog.Exitf("%v", err)
		}
		return
	}

	var in io.ReadCloser = os.Stdin
	if cfg.Serial.Port != "-" {
		port, err := monitor.OpenSerial(cfg.Serial)
		if err != nil {
			glog.Exitf("%v", err)
		}
		in = port
		glog.Infof("reading %s at %d baud", cfg.Serial.Port, cfg.Serial.BaudRate)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rd := monitor.NewReader(in, cfg.Serial.Buffer)
	done := make(chan error, 1)
	go func() { done <- rd.Run(ctx) }()
	go func() {
		// unblocks a pending read
		<-ctx.Done()
		in.Close()
	}()

	monitor.Watch(ctx, rd.Readings(), cfg.Alarm, nil)

	if err := <-done; err != nil && ctx.Err() == nil {
		glog.Errorf("read failed: %v", err)
	}
	glog.Infof("lines=%d malformed=%d dropped=%d", rd.Lines(), rd.Malformed(), rd.Dropped())
}
