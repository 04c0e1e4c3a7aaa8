package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StartiOne/snort3/internal/codec"
	"github.com/StartiOne/snort3/internal/codecs"
	"github.com/StartiOne/snort3/internal/dispatch"
	"github.com/StartiOne/snort3/internal/filter"
	"github.com/StartiOne/snort3/internal/log"
	"github.com/StartiOne/snort3/internal/source"
)

var (
	decodeVerbose    bool
	decodeFilterPort uint16
	decodeFilterProt string
)

var decodeCmd = &cobra.Command{
	Use:   "decode <capture.pcap>",
	Short: "Replay a pcap file through the codec pipeline",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().BoolVarP(&decodeVerbose, "verbose", "v", false,
		"log every decoded layer")
	decodeCmd.Flags().StringVar(&decodeFilterProt, "proto", "",
		"only decode frames of this transport protocol (tcp, udp, icmp)")
	decodeCmd.Flags().Uint16Var(&decodeFilterPort, "port", 0,
		"only decode frames with this src or dst port")
}

func runDecode(cmd *cobra.Command, args []string) error {
	src, err := source.OpenFile(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	flt, err := filter.Compile(decodeFilterProt, decodeFilterPort)
	if err != nil {
		return err
	}

	reg := dispatch.NewRegistry()
	if err := codecs.RegisterAll(reg, cfg); err != nil {
		return err
	}
	defer reg.Shutdown()

	w := reg.NewWorker()
	defer w.Close()

	tl := log.NewTextLog(os.Stdout)
	logger := log.GetLogger()

	var total, filtered, failed int
	byType := make(map[codec.PktType]int)

	for {
		frame, _, err := src.ReadPacket()
		if err != nil {
			break
		}
		total++

		if !flt.Match(frame) {
			filtered++
			continue
		}

		p, err := w.Decode(frame, src.LinkType())
		if err != nil {
			failed++
			logger.WithError(err).Debug("undecodable packet")
			continue
		}
		byType[p.Snort.GetPktType()]++

		if decodeVerbose {
			dispatch.LogPacket(tl, p)
		}
	}

	logger.WithFields(map[string]interface{}{
		"total":    total,
		"filtered": filtered,
		"failed":   failed,
	}).Info("replay finished")
	for t, n := range byType {
		fmt.Printf("%8s: %d\n", t, n)
	}
	return nil
}
