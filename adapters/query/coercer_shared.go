package query

import "dataprofiler/adapters/coercer"

func sharedCoercer() *coercer.Coercer {
	return coercer.New(coercer.DefaultConfig())
}
