package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"
)

var cpuProfile *os.File

func startProfiling() error {
	if cpuprofile == "" {
		return nil
	}
	cpuProfPath := path.Join(saveFile, cpuprofile)
	if err := os.MkdirAll(path.Dir(cpuProfPath), 0777); err != nil {
		return err
	}
	fmt.Println("Profiling CPU to ", cpuProfPath)
	f, err := os.Create(cpuProfPath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	cpuProfile = f
	return nil
}

func stopProfiling() {
	if cpuProfile != nil {
		pprof.StopCPUProfile()
		cpuProfile.Close()
		cpuProfile = nil
	}

	if memprofile != "" {
		memProfPath := path.Join(saveFile, memprofile)
		fmt.Println("Profiling Memory to ", memProfPath)
		f, err := os.Create(memProfPath)
		if err != nil {
			fmt.Printf("could not create memory profile: %s\n", err)
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Printf("could not write memory profile: %s\n", err)
		}
	}
}
