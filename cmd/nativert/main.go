// Command nativert drives pkg/core directly, hand-assembling the kind
// of call sequence an ahead-of-time compiler would emit. The compiler
// itself is out of scope for this repo; this binary exists to exercise
// the runtime end to end the way purple_go's own main.go drives its
// compiler/eval pipeline from flags.
package main

import (
	"flag"
	"fmt"
	"os"

	"nativert/pkg/core"
)

var (
	demo      = flag.String("demo", "factorial", "Demo program to run: factorial, closures, throw, uncaught")
	arg       = flag.Int("n", 10, "Numeric argument to the demo program")
	forceGC   = flag.Bool("gc", false, "Force a collection after the demo program runs")
	verbose   = flag.Bool("v", false, "Print progress messages (demo start, forced collection) to stderr")
	traceFlag = flag.String("trace", "", "Set NATIVERT_TRACE before starting the runtime (HEAP_ALLOC, HEAP_GC, ALL, ...)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "nativert - runtime core demo harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -demo factorial -n 10\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -demo closures\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -demo throw -trace HEAP_GC,FORCE_GC -gc -v\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -demo uncaught\n", os.Args[0])
	}
	flag.Parse()

	if *traceFlag != "" {
		os.Setenv("NATIVERT_TRACE", *traceFlag)
	}

	rt := core.NewRuntime()
	act := core.NewActivation(rt, nil, nil, 0, 0)

	if *verbose {
		fmt.Fprintf(os.Stderr, "nativert: starting demo %q\n", *demo)
	}

	core.CallTopLevel(act, rt, func() {
		switch *demo {
		case "factorial":
			runFactorial(rt, act, *arg)
		case "closures":
			runClosures(rt, act)
		case "throw":
			runThrow(rt, act)
		case "uncaught":
			runUncaught(rt, act)
		default:
			fmt.Fprintf(os.Stderr, "unknown demo %q\n", *demo)
			flag.Usage()
			os.Exit(1)
		}
	})

	if *forceGC {
		rt.ForceGC(act)
		if *verbose {
			fmt.Fprintf(os.Stderr, "nativert: forced a collection after the demo ran\n")
		}
	}
}

// runFactorial assembles a self-referential factorial function and
// calls it, printing the result — the hand-assembled equivalent of
// what a compiled recursive function body would look like.
func runFactorial(rt *core.Runtime, act *core.Activation, n int) {
	var fn *core.Object
	code := func(callerAct *core.Activation, args []core.TaggedValue) core.TaggedValue {
		frame := core.NewActivation(rt, callerAct, nil, 0, 0)
		v := args[1].Num
		if v <= 1 {
			return core.MakeNumber(1)
		}
		rec := core.Call(frame, rt, core.MakeObjectValue(fn), core.Undefined, []core.TaggedValue{core.MakeNumber(v - 1)})
		return core.MakeNumber(v * rec.Num)
	}
	fn = core.NewFunction(rt, act, "factorial", 1, nil, code, nil, false)

	result := core.Call(act, rt, core.MakeObjectValue(fn), core.Undefined, []core.TaggedValue{core.MakeNumber(float64(n))})
	fmt.Printf("factorial(%d) = %v\n", n, result.Num)
}

// runClosures builds two independent counters from the same maker and
// shows their state does not leak into one another.
func runClosures(rt *core.Runtime, act *core.Activation) {
	makeCounter := func() *core.Object {
		frame := core.NewActivation(rt, act, nil, 1, 0)
		*frame.Escaped().Var(0) = core.MakeNumber(0)
		env := frame.Escaped()
		code := func(callerAct *core.Activation, args []core.TaggedValue) core.TaggedValue {
			slot := env.Var(0)
			slot.Num++
			return *slot
		}
		return core.NewFunction(rt, frame, "inc", 0, env, code, nil, false)
	}

	a, b := makeCounter(), makeCounter()
	for i := 0; i < 3; i++ {
		core.Call(act, rt, core.MakeObjectValue(a), core.Undefined, nil)
	}
	onceB := core.Call(act, rt, core.MakeObjectValue(b), core.Undefined, nil)
	finalA := core.Call(act, rt, core.MakeObjectValue(a), core.Undefined, nil)

	fmt.Printf("counter a = %v, counter b = %v\n", finalA.Num, onceB.Num)
}

// runUncaught throws with no enclosing Try, demonstrating the
// top-level termination path CallTopLevel installs: the process
// reports the coerced thrown value and a stack trace, then exits
// nonzero, instead of surfacing a raw Go panic.
func runUncaught(rt *core.Runtime, act *core.Activation) {
	level1 := core.NewFunction(rt, act, "level1", 0, nil, func(callerAct *core.Activation, args []core.TaggedValue) core.TaggedValue {
		core.ThrowRangeErrorf(callerAct, rt, "nothing caught this")
		return core.Undefined
	}, nil, false)
	core.Call(act, rt, core.MakeObjectValue(level1), core.Undefined, nil)
}

// runThrow demonstrates an exception thrown three call frames deep
// being caught by an outer Try.
func runThrow(rt *core.Runtime, act *core.Activation) {
	level2 := core.NewFunction(rt, act, "level2", 0, nil, func(callerAct *core.Activation, args []core.TaggedValue) core.TaggedValue {
		core.ThrowRangeErrorf(callerAct, rt, "something went wrong three frames down")
		return core.Undefined
	}, nil, false)
	level1 := core.NewFunction(rt, act, "level1", 0, nil, func(callerAct *core.Activation, args []core.TaggedValue) core.TaggedValue {
		return core.Call(callerAct, rt, core.MakeObjectValue(level2), core.Undefined, nil)
	}, nil, false)

	core.Try(act, rt, func() {
		core.Call(act, rt, core.MakeObjectValue(level1), core.Undefined, nil)
		fmt.Println("unreachable")
	}, func(thrown core.TaggedValue) {
		fmt.Printf("caught: %s\n", core.ErrorMessage(act, rt, thrown).String())
	})
}
