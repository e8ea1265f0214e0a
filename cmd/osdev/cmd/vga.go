package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aahrav/osdev/mmio"
	"github.com/Aahrav/osdev/monitoring"
)

var vgaCmd = &cobra.Command{
	Use:   "vga",
	Short: "Write to the VGA text buffer and read the timer register",
	Long: `vga maps the VGA text buffer at 0xB8000 and a timer at ` +
		`0xFFFF0000 into an address space, writes a white-on-black 'A' ` +
		`through a register handle, and reads the tick counter. Registers ` +
		`expose read and write only; no arithmetic can move them.`,
	RunE: runVGA,
}

func init() {
	vgaCmd.Flags().String("trace-db", "",
		"record every access to this SQLite database (without .sqlite3)")
	vgaCmd.Flags().Bool("log-accesses", false,
		"print every access to stderr")
	vgaCmd.Flags().Bool("monitor", false,
		"serve device state over HTTP")

	rootCmd.AddCommand(vgaCmd)
}

func runVGA(cobraCmd *cobra.Command, _ []string) error {
	space := mmio.NewAddressSpace()

	vga := mmio.NewVGADevice()
	space.Map(mmio.VGABase, mmio.VGASize, vga)

	timer := mmio.NewTimerDevice()
	space.Map(mmio.TimerBase, mmio.TimerSize, timer)

	attachTracers(cobraCmd, space)

	if on, _ := cobraCmd.Flags().GetBool("monitor"); on {
		monitor := monitoring.NewMonitor().
			WithPortNumber(monitorPortFromEnv())
		monitor.RegisterComponent(vga)
		monitor.RegisterComponent(timer)
		monitor.StartServer(false)
	}

	// Write character 'A' with white text on black background into the
	// top-left cell.
	cell := mmio.NewRegister16(space, mmio.VGABase)
	if err := cell.Write(0x0F00 | 'A'); err != nil {
		return err
	}

	char, attr, err := vga.CharAt(0, 0)
	if err != nil {
		return err
	}
	fmt.Printf("cell (0,0): %q attr 0x%02x\n", char, attr)

	for i := 0; i < 3; i++ {
		timer.Tick()
	}

	ticks := mmio.NewRegister(space, mmio.TimerBase+mmio.TimerRegTicks)
	v, err := ticks.Read()
	if err != nil {
		return err
	}
	fmt.Printf("timer ticks: %d\n", v)

	// The ticks register is read-only; show the typed failure instead of a
	// silent write.
	if err := ticks.Write(0); err != nil {
		fmt.Printf("write to ticks register: %v\n", err)
	}

	return nil
}
