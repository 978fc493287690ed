// Package projects models projects and their settings: flag visibility,
// feature naming rules, realtime delivery, resource limits and edge identity
// migration state.
//
// Every project belongs to exactly one organisation. The permission engine
// resolves a project to its organisation through the Store, and the feature
// and segment packages read naming rules and limits off the Project struct.
//
// # Read model
//
// DetailsService assembles what the dashboard shows for a project: the
// settings, derived feature and segment totals, and where the project stands
// in its migration to the edge identity store. Migration state lives in a
// DynamoDB metadata table read through DynamoMigrator; deployments without
// the table simply report NOT_APPLICABLE.
//
//	store := projects.NewPGStore(pool)
//
//	var edgeCfg projects.EdgeConfig
//	config.MustLoad(&edgeCfg)
//
//	var opts []projects.DetailsOption
//	if edgeCfg.MetadataTable != "" {
//	    migrator, err := projects.NewDynamoMigrator(ctx, edgeCfg)
//	    if err != nil {
//	        return err
//	    }
//	    opts = append(opts, projects.WithMigrator(migrator), projects.WithEdgeRelease(edgeCfg.ReleaseAt))
//	}
//
//	details := projects.NewDetailsService(store, featureStore, segmentStore, opts...)
//	d, err := details.Details(ctx, projectID)
package projects
