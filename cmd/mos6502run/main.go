// Command mos6502run loads a raw binary image into memory, asserts reset,
// and single-steps the CPU a requested number of times, logging the
// disassembled instruction and exit kind after every step (and, with
// --dump-registers, the register state). It is the external
// collaborator around the cpu package: none of this file's logic is part of
// the CPU engine itself.
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/urfave/cli.v2"

	"github.com/kressler/mos6502/cpu"
	"github.com/kressler/mos6502/disasm"
	"github.com/kressler/mos6502/irqline"
	"github.com/kressler/mos6502/memory"
)

func main() {
	app := &cli.App{
		Name:    "mos6502run",
		Usage:   "Load a binary image and single-step a 6502 core over it",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "image",
				Aliases:  []string{"i"},
				Usage:    "path to a raw binary image to load",
				Required: true,
			},
			&cli.UintFlag{
				Name:    "load-addr",
				Aliases: []string{"a"},
				Usage:   "address to load the image at",
				Value:   0x0200,
			},
			&cli.UintFlag{
				Name:    "reset-vector",
				Aliases: []string{"r"},
				Usage:   "value to write into the reset vector (0xFFFC/0xFFFD); defaults to load-addr",
			},
			&cli.UintFlag{
				Name:    "steps",
				Aliases: []string{"n"},
				Usage:   "number of Run calls to perform",
				Value:   10,
			},
			&cli.BoolFlag{
				Name:  "irq",
				Usage: "assert a level-triggered IRQ line for the whole run",
			},
			&cli.BoolFlag{
				Name:  "dump-registers",
				Usage: "spew.Sdump the full register file after each step",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		log.Fatalf("mos6502run: %v", err)
	}
}

func run(c *cli.Context) error {
	img, err := os.ReadFile(c.String("image"))
	if err != nil {
		return fmt.Errorf("reading image: %w", err)
	}

	loadAddr := uint16(c.Uint("load-addr"))
	resetVector := uint16(c.Uint("reset-vector"))
	if !c.IsSet("reset-vector") {
		resetVector = loadAddr
	}

	mem := memory.NewBankedRAM(memory.MaxMemorySize, loadAddr)
	if err := mem.LoadROM(loadAddr, img); err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	if err := mem.LoadROM(cpu.ResetVector, []uint8{uint8(resetVector), uint8(resetVector >> 8)}); err != nil {
		return fmt.Errorf("writing reset vector: %w", err)
	}

	chip := cpu.New(mem, cpu.Disallow)
	chip.SetResetPending()

	var irq *irqline.Level
	if c.Bool("irq") {
		irq = irqline.NewLevel()
		irq.Raise()
	}

	steps := c.Uint("steps")
	for i := uint(0); i < steps; i++ {
		if irq != nil && irq.Raised() {
			chip.SetIrqPending()
		}

		pc := chip.Registers().PC
		text, _, derr := disasm.Step(pc, mem)
		if derr != nil {
			text = fmt.Sprintf("%.4X  <unreadable: %v>", pc, derr)
		}

		exit, err := chip.Run()
		if err != nil {
			log.Printf("step %d: %s -> error: %v", i, text, err)
			return err
		}
		log.Printf("step %d: %s -> %v", i, text, exit.Kind)

		if c.Bool("dump-registers") {
			fmt.Fprintln(os.Stderr, spew.Sdump(chip.Registers()))
		}
	}
	return nil
}
