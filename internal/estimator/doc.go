package estimator

// Usage example (not compiled):
//
//  est, err := estimator.NewFromConfig(client, cfg)
//  if err != nil { ... }
//
//  gas, err := est.EstimateL1Gas(ctx, &estimator.GasEstimateRequest{
//      To:    recipient,
//      Value: value,
//  })
//  // gas is the L1 data gas the posted bytes would consume
//
