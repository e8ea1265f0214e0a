package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Aahrav/osdev/datarecording"
	"github.com/Aahrav/osdev/hooking"
	"github.com/Aahrav/osdev/mem"
	"github.com/Aahrav/osdev/monitoring"
	"github.com/Aahrav/osdev/trace"
)

var walkCmd = &cobra.Command{
	Use:   "walk",
	Short: "Walk a cursor over the buffer {10, 20, 30, 40}",
	Long: `walk places the buffer {10, 20, 30, 40} in simulated memory and ` +
		`walks a bounds-checked cursor over it: dereference, address ` +
		`printing, write-through, element-scaled advancing, and the ` +
		`out-of-bounds failure a raw pointer would silently skip.`,
	RunE: runWalk,
}

func init() {
	walkCmd.Flags().String("trace-db", "",
		"record every access to this SQLite database (without .sqlite3)")
	walkCmd.Flags().Bool("log-accesses", false,
		"print every access to stderr")
	walkCmd.Flags().Bool("monitor", false,
		"serve component state over HTTP while walking")

	rootCmd.AddCommand(walkCmd)
}

func runWalk(cobraCmd *cobra.Command, _ []string) error {
	storage := mem.NewStorage(1 << 20)

	buf, err := mem.NewBuffer("Walk.Buf", storage, 0x1000, mem.Width32,
		10, 20, 30, 40)
	if err != nil {
		return err
	}

	attachTracers(cobraCmd, buf)

	if on, _ := cobraCmd.Flags().GetBool("monitor"); on {
		monitor := monitoring.NewMonitor().
			WithPortNumber(monitorPortFromEnv())
		monitor.RegisterComponent(buf)
		monitor.StartServer(false)
	}

	cur := mem.NewCursor(buf)

	// The two lines the original prints: the dereferenced value and the
	// raw address.
	v, err := cur.Value()
	if err != nil {
		return err
	}
	fmt.Printf("%d\n", v)
	fmt.Printf("0x%x\n", cur.Addr())

	if err := cur.Advance(); err != nil {
		return err
	}
	v, err = cur.Value()
	if err != nil {
		return err
	}
	fmt.Printf("%d\n", v)
	fmt.Printf("0x%x\n", cur.Addr())

	if err := cur.Set(99); err != nil {
		return err
	}
	v, err = cur.Value()
	if err != nil {
		return err
	}
	fmt.Printf("after write: %d\n", v)

	for cur.Index() < buf.Len()-1 {
		if err := cur.Advance(); err != nil {
			return err
		}
	}
	v, err = cur.Value()
	if err != nil {
		return err
	}
	fmt.Printf("last element: %d at 0x%x\n", v, cur.Addr())

	err = cur.Advance()
	var oob *mem.OutOfBoundsError
	if !errors.As(err, &oob) {
		return fmt.Errorf("advancing past the end should fail, got %v", err)
	}
	fmt.Printf("advance past the end: %v\n", oob)

	if err := scalingDemo(storage); err != nil {
		return err
	}

	return distanceDemo(storage)
}

// scalingDemo shows that advancing moves by one element width, not one byte:
// a byte cursor steps 0x2000 -> 0x2001 while a word cursor steps
// 0x3000 -> 0x3004.
func scalingDemo(storage *mem.Storage) error {
	bytes, err := mem.NewBuffer("Walk.Bytes", storage, 0x2000, mem.Width8,
		1, 2, 3, 4)
	if err != nil {
		return err
	}

	words, err := mem.NewBuffer("Walk.Words", storage, 0x3000, mem.Width32,
		1, 2, 3, 4)
	if err != nil {
		return err
	}

	byteCur := mem.NewCursor(bytes)
	wordCur := mem.NewCursor(words)

	byteBefore := byteCur.Addr()
	wordBefore := wordCur.Addr()

	if err := byteCur.Advance(); err != nil {
		return err
	}
	if err := wordCur.Advance(); err != nil {
		return err
	}

	fmt.Printf("byte cursor: 0x%x -> 0x%x (+%d)\n",
		byteBefore, byteCur.Addr(), byteCur.Addr()-byteBefore)
	fmt.Printf("word cursor: 0x%x -> 0x%x (+%d)\n",
		wordBefore, wordCur.Addr(), wordCur.Addr()-wordBefore)

	return nil
}

// distanceDemo shows that cursor difference is an element count: cursors
// 0x1000 bytes apart over 4-byte elements are 0x400 elements apart.
func distanceDemo(storage *mem.Storage) error {
	values := make([]int64, 0x401)

	buf, err := mem.NewBuffer("Walk.Span", storage, 0x10000, mem.Width32,
		values...)
	if err != nil {
		return err
	}

	start := mem.NewCursor(buf)
	end := mem.NewCursor(buf)
	if err := end.Seek(0x400); err != nil {
		return err
	}

	count, err := start.Distance(end)
	if err != nil {
		return err
	}

	fmt.Printf("0x%x - 0x%x = %d elements (not %d bytes)\n",
		end.Addr(), start.Addr(), count, end.Addr()-start.Addr())

	return nil
}

func attachTracers(cobraCmd *cobra.Command, h hooking.Hookable) {
	if on, _ := cobraCmd.Flags().GetBool("log-accesses"); on {
		h.AcceptHook(trace.NewLogTracer(
			log.New(os.Stderr, "access: ", 0)))
	}

	dbPath, _ := cobraCmd.Flags().GetString("trace-db")
	if dbPath == "" {
		dbPath = os.Getenv("OSDEV_TRACE_DB")
	}

	if dbPath != "" {
		recorder := datarecording.New(dbPath)
		h.AcceptHook(trace.NewDBTracer(recorder))
	}
}

func monitorPortFromEnv() int {
	port, err := strconv.Atoi(envOr("OSDEV_MONITOR_PORT", "0"))
	if err != nil {
		return 0
	}

	return port
}
