package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sqweek/dialog"
)

var (
	pcapPath  string
	sceneName string
	doDebug   bool
)

func main() {
	geometry := flag.String("geometry", "", "voxel grid size as WxHxL (overrides saved setting)")
	port := flag.Int("port", 0, "Art-Net UDP listen port (overrides saved setting)")
	flag.StringVar(&pcapPath, "pcap", "", "replay Art-Net frames from a .pcap/.pcapng file")
	pickPcap := flag.Bool("pickPcap", false, "choose a capture file to replay with a file dialog")
	flag.StringVar(&sceneName, "scene", "", "run a built-in generator scene instead of listening")
	flag.BoolVar(&doDebug, "debug", false, "verbose/debug logging")
	fullscreen := flag.Bool("fullscreen", false, "start fullscreen")
	flag.Parse()

	loadSettings()
	if *geometry != "" {
		gs.Geometry = *geometry
	}
	if *port != 0 {
		gs.ListenPort = *port
	}
	if *fullscreen {
		gs.Fullscreen = true
	}
	setupLogging(doDebug)

	if *pickPcap && pcapPath == "" {
		name, err := dialog.File().Filter("packet captures", "pcap", "pcapng").Load()
		if err != nil {
			if err != dialog.Cancelled {
				logError("pick capture: %v", err)
			}
			return
		}
		pcapPath = name
	}

	w, h, l, err := parseGeometry(gs.Geometry)
	if err != nil {
		log.Fatalf("%v", err)
	}
	r := newRaster(w, h, l)

	setWindowIcon(os.Args[0], fileExists, ebitenIconApplier{})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
	defer cancel()

	go func() {
		switch {
		case pcapPath != "":
			if err := replayPCAP(ctx, pcapPath, r); err != nil && ctx.Err() == nil {
				logError("replay pcap: %v", err)
			} else if ctx.Err() == nil {
				logInfo("pcap replay complete")
			}
		case sceneName != "":
			fn, err := sceneByName(sceneName)
			if err != nil {
				log.Fatalf("%v", err)
			}
			runScene(ctx, r, fn)
		default:
			if err := listenArtNet(ctx, gs.ListenPort, r); err != nil && ctx.Err() == nil {
				logError("artnet listener: %v", err)
			}
		}
	}()

	runGame(r)
	cancel()
}
