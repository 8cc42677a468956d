// Command multiview inspects, plots, exports and samples posed multi-view
// image datasets.
//
// Usage:
//
//	multiview inspect --manifest scene/transforms.json
//	multiview plot -c data.yaml --random 256 -o output
//	multiview export -c data.yaml --tier 1 -o cameras.cbor
//	multiview sample -c data.yaml --step 500 -n 2 --verbose
package main

import (
	"os"

	"k8s.io/klog/v2"
)

func main() {
	defer klog.Flush()
	if err := NewRootCommand().Execute(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
}
