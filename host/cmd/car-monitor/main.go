package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"movingcar/host/mcu"
	"movingcar/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	board   = flag.String("board", "atmega328p", "Board the log comes from (sets the baud rate)")
	baud    = flag.Int("baud", 0, "Baud rate override")
	raw     = flag.Bool("raw", false, "Print lines as received")
	verbose = flag.Bool("verbose", false, "Print decoded event dumps")
)

func main() {
	flag.Parse()

	fmt.Println("Car Monitor - moving car log follower")
	fmt.Println("=====================================")

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = serial.BaudFor(*board)
	if *baud != 0 {
		cfg.Baud = *baud
	}

	mcuConn := mcu.NewMCU()
	fmt.Printf("Connecting to %s at %d baud...\n", cfg.Device, cfg.Baud)
	if err := mcuConn.ConnectWithConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer mcuConn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := mcuConn.Follow(ctx, func(rec mcu.Record) {
		stamp := time.Now().Format("15:04:05.000")
		switch {
		case *raw:
			fmt.Printf("%s %s\n", stamp, rec.Text)
		case rec.Kind == mcu.KindEvent:
			if *verbose {
				fmt.Printf("%s   %s\n", stamp, mcu.Describe(rec.Event))
			}
		case rec.Kind == mcu.KindDumpEnd:
			fmt.Printf("%s event dump: %d entries\n", stamp, len(mcuConn.Events()))
		case rec.Kind == mcu.KindLog && rec.Tag != "":
			fmt.Printf("%s %-5s %s\n", stamp, rec.Tag, rec.Text)
		case rec.Kind == mcu.KindLog:
			fmt.Printf("%s %s\n", stamp, rec.Text)
		}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
