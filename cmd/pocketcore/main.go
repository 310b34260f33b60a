// Command pocketcore runs a boot ROM and cartridge image headlessly for
// a fixed number of frames and reports where execution ended up. It is a
// smoke-test harness, not a frontend: windowing, audio, and input are
// interfaces the core exposes (Console.SetKey, Console.RunFrame), left
// for a separate program to implement.
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/sys/unix"

	"github.com/user-none/pocketcore/emu"
)

func main() {
	bootPath := flag.String("boot", "", "path to boot ROM image")
	cartPath := flag.String("cart", "", "path to cartridge image")
	frames := flag.Int("frames", 60, "number of frames to run headlessly")
	flag.Parse()

	if *bootPath == "" || *cartPath == "" {
		log.Fatal("-boot and -cart are both required")
	}

	bootData := mustReadRegularFile(*bootPath)
	cartData := mustReadRegularFile(*cartPath)

	cart, err := emu.LoadCartridge(cartData)
	if err != nil {
		log.Fatalf("loading cartridge: %v", err)
	}

	console := emu.NewConsole()
	console.LoadBootROM(bootData)
	console.LoadCartridge(cart)

	for i := 0; i < *frames; i++ {
		console.RunFrame()
	}

	log.Printf("ran %d frames, final PC=%#08x, cycles=%d", *frames, console.CPU.Regs.PC(), console.CPU.Cycles())
}

// mustReadRegularFile stats path before opening it, refusing directories
// and other non-regular files the way the teacher's ROM loader guards
// against a user pointing it at the wrong kind of path.
func mustReadRegularFile(path string) []byte {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		log.Fatalf("stat %s: %v", path, err)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFREG {
		log.Fatalf("%s is not a regular file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading %s: %v", path, err)
	}
	return data
}
