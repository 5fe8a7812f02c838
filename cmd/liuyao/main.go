// liuyao casts and analyses Liuyao charts.
//
// Usage:
//
//	liuyao cast --lines 7,7,8,6,9,8 --month 丙寅 --day 甲子 [--year 甲辰] [--json] [--archive]
//	liuyao batch -f inputs.json [--json] [--archive]
//	liuyao rulesets
//	liuyao replay -f fixture.json [--parallel N]
//	liuyao inspect [--last N] [--id chart-id] [--json]
//	liuyao export -o fixture.json [--id chart-id ...] [--last N]
//	liuyao serve [--addr :50051] [--metrics-addr :9090]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
